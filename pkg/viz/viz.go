// Package viz exposes an arena's layout to external diagnostic tools.
//
// It is the optional transport collaborator of the pool: a small TCP
// endpoint that greets each connection with a hello frame and answers layout
// requests with the allocated-block extents reported through the
// [pool.Vizable] capability. Frames are single JSON lines, requests are
// single plain-text lines, so the endpoint is usable from a script or a
// netcat session as well as from [Dial].
//
// The pool itself is single-threaded by contract, so a server that shares a
// live pool with a mutator must be given the lock that mutator holds; see
// [Server.Lock].
package viz

import (
	"github.com/flier/fixedarena/pkg/pool"
)

// Hello is the first frame sent on every connection.
type Hello struct {
	Session   string `json:"session"`
	ArenaSize int    `json:"arena_size"`
}

// Snapshot is one layout report: the allocated blocks, in ascending offset
// order.
type Snapshot struct {
	Blocks []pool.Extent `json:"blocks"`
}

// Request lines understood by the server.
const (
	cmdLayout = "layout"
	cmdQuit   = "quit"
)
