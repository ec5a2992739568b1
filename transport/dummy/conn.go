package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is an in-memory net.Conn. Reads return the chunks it was initialised with one by one
// followed by io.EOF, while writes are journaled and may be throttled by a write plan.
type Conn struct {
	chunks   [][]byte
	written  []byte
	plan     []int
	writeErr error
	writes   int
	closed   bool
}

func NewConn(chunks ...[]byte) *Conn {
	return &Conn{chunks: chunks}
}

// WritePlan limits the number of bytes the consecutive writes accept. Once the plan is
// exhausted, writes accept everything.
func (c *Conn) WritePlan(limits ...int) *Conn {
	c.plan = limits
	return c
}

// FailWrites makes every write return err.
func (c *Conn) FailWrites(err error) *Conn {
	c.writeErr = err
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	if len(c.chunks) == 0 {
		return 0, io.EOF
	}

	n = copy(b, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.writes++
	if c.writeErr != nil {
		return 0, c.writeErr
	}

	n = len(b)
	if len(c.plan) > 0 {
		n = min(n, c.plan[0])
		c.plan = c.plan[1:]
	}

	c.written = append(c.written, b[:n]...)
	return n, nil
}

// Written returns everything written so far.
func (c *Conn) Written() []byte {
	return c.written
}

// Writes returns the number of Write calls.
func (c *Conn) Writes() int {
	return c.writes
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}
