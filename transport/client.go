package transport

import (
	"io"
	"net"
	"time"

	"github.com/indigo-web/reqpool/config"
)

type Client interface {
	Read() ([]byte, error)
	Write([]byte) error
	Remote() net.Addr
	Close() error
}

type client struct {
	conn         net.Conn
	buff         []byte
	readTimeout  time.Duration
	writeTimeout time.Duration
	writeRetries int
}

func NewClient(conn net.Conn, cfg config.NET) Client {
	return &client{
		conn:         conn,
		buff:         make([]byte, cfg.ReadBufferSize),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		writeRetries: cfg.WriteRetries,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. The returned
// slice is valid until the next call. A client staying silent for longer than the read
// timeout results in os.ErrDeadlineExceeded.
func (c *client) Read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

// Write writes the whole b. Writes which make no progress without reporting an error are
// retried, but after writeRetries of them in a row io.ErrShortWrite is returned.
func (c *client) Write(b []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}

	for stalls := 0; len(b) > 0; {
		n, err := c.conn.Write(b)
		if err != nil {
			return err
		}

		if n == 0 {
			if stalls++; stalls >= c.writeRetries {
				return io.ErrShortWrite
			}

			continue
		}

		stalls = 0
		b = b[n:]
	}

	return nil
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the connection.
func (c *client) Close() error {
	return c.conn.Close()
}
