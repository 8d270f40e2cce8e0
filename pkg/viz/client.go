package viz

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
)

// Client is the diagnostic side of the viz protocol.
type Client struct {
	// Hello is the greeting frame received when the connection was made.
	Hello Hello

	conn net.Conn
	dec  *json.Decoder
	w    *bufio.Writer
}

// Dial connects to a viz server and consumes its hello frame.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("viz: dial %s: %w", addr, err)
	}

	c := &Client{
		conn: conn,
		dec:  json.NewDecoder(conn),
		w:    bufio.NewWriter(conn),
	}

	if err := c.dec.Decode(&c.Hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("viz: reading hello: %w", err)
	}

	return c, nil
}

// Snapshot requests and returns one layout report.
func (c *Client) Snapshot() (Snapshot, error) {
	if _, err := fmt.Fprintln(c.w, cmdLayout); err != nil {
		return Snapshot{}, fmt.Errorf("viz: requesting layout: %w", err)
	}

	if err := c.w.Flush(); err != nil {
		return Snapshot{}, fmt.Errorf("viz: requesting layout: %w", err)
	}

	var snap Snapshot
	if err := c.dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("viz: reading layout: %w", err)
	}

	return snap, nil
}

// Close tells the server we are done and drops the connection.
func (c *Client) Close() error {
	_, _ = fmt.Fprintln(c.w, cmdQuit)
	_ = c.w.Flush()

	return c.conn.Close()
}
