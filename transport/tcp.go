package transport

import (
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/internal/timer"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// TCP is a plain TCP accept loop.
type TCP struct {
	l    listener
	stop atomic.Bool
}

func NewTCP() *TCP {
	return new(TCP)
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = bindTCP(addr)
	return err
}

// Listen accepts connections until Stop is called. Every connection is passed to onConn on
// the accepting goroutine, so it must hand the connection off quickly. The accept call is
// interrupted every cfg.AcceptLoopInterruptPeriod in order to check whether it's time to stop.
func (t *TCP) Listen(cfg config.NET, onConn func(conn net.Conn)) error {
	for !t.stop.Load() {
		err := t.l.SetDeadline(timer.Deadline(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return t.stopped(err)
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			return t.stopped(err)
		}

		onConn(conn)
	}

	return nil
}

// stopped hides the error caused by closing the listener on purpose.
func (t *TCP) stopped(err error) error {
	if errors.Is(err, net.ErrClosed) && t.stop.Load() {
		return nil
	}

	return err
}

// Stop makes Listen return after the current accept call ends. Already accepted connections
// aren't affected.
func (t *TCP) Stop() {
	t.stop.Store(true)
}

// Close closes the listener. Closing a listener which was never bound is a no-op.
func (t *TCP) Close() error {
	if t.l == nil {
		return nil
	}

	return t.l.Close()
}

// Addr returns the bound address or nil if Bind wasn't called yet.
func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}
