package viz

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/flier/fixedarena/internal/debug"
	"github.com/flier/fixedarena/pkg/pool"
)

// Server serves layout snapshots of one arena over TCP.
type Server struct {
	// Source is the arena being inspected.
	Source pool.Vizable

	// Lock, when set, is held around every access to Source. Required
	// whenever the pool is mutated while the server runs.
	Lock sync.Locker

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// Listen starts accepting connections on addr and returns immediately.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("viz: listen %s: %w", addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.serve(ln)

	return nil
}

// Addr returns the listening address, for callers that bound to port zero.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}

	return s.ln.Addr()
}

// Close stops accepting connections and waits for the ones in flight.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}

	err := ln.Close()
	s.wg.Wait()

	return err
}

func (s *Server) serve(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	session := uuid.NewString()
	enc := json.NewEncoder(conn)

	s.lock()
	hello := Hello{Session: session, ArenaSize: s.Source.ArenaSize()}
	s.unlock()

	if err := enc.Encode(hello); err != nil {
		return
	}

	debug.Log([]any{"%s", session}, "accept", "%v", conn.RemoteAddr())

	lines := bufio.NewScanner(conn)
	for lines.Scan() {
		switch cmd := strings.TrimSpace(lines.Text()); cmd {
		case cmdLayout:
			if err := enc.Encode(s.snapshot()); err != nil {
				return
			}

		case cmdQuit, "":
			return

		default:
			debug.Log([]any{"%s", session}, "request", "unknown command %q", cmd)

			return
		}
	}
}

// snapshot drains the full layout report, growing its buffer until the
// source stops truncating.
func (s *Server) snapshot() Snapshot {
	s.lock()
	defer s.unlock()

	buf := make([]pool.Extent, 64)
	for {
		n := s.Source.ArenaLayout(buf)
		if n < len(buf) {
			// Empty slice rather than nil, so the frame says "blocks":[].
			return Snapshot{Blocks: buf[:n:n]}
		}

		buf = make([]pool.Extent, len(buf)*2)
	}
}

func (s *Server) lock() {
	if s.Lock != nil {
		s.Lock.Lock()
	}
}

func (s *Server) unlock() {
	if s.Lock != nil {
		s.Lock.Unlock()
	}
}
