package transport

import (
	"errors"
	"io"
	"testing"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/transport/dummy"
	"github.com/stretchr/testify/require"
)

func newClient(conn *dummy.Conn) Client {
	cfg := config.Default().NET
	cfg.ReadBufferSize = 4
	cfg.WriteRetries = 3

	return NewClient(conn, cfg)
}

func TestClientRead(t *testing.T) {
	client := newClient(dummy.NewConn([]byte("Hello, "), []byte("World!")))

	var got []byte
	for {
		data, err := client.Read()
		got = append(got, data...)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}

		require.LessOrEqual(t, len(data), 4)
	}

	require.Equal(t, "Hello, World!", string(got))
	require.NotNil(t, client.Remote())
}

func TestClientWrite(t *testing.T) {
	t.Run("all at once", func(t *testing.T) {
		conn := dummy.NewConn()
		require.NoError(t, newClient(conn).Write([]byte("Hello, World!")))
		require.Equal(t, "Hello, World!", string(conn.Written()))
		require.Equal(t, 1, conn.Writes())
	})

	t.Run("partial writes", func(t *testing.T) {
		conn := dummy.NewConn().WritePlan(2, 3, 1)
		require.NoError(t, newClient(conn).Write([]byte("Hello, World!")))
		require.Equal(t, "Hello, World!", string(conn.Written()))
		require.Equal(t, 4, conn.Writes())
	})

	t.Run("stalls below the limit", func(t *testing.T) {
		conn := dummy.NewConn().WritePlan(0, 0, 5, 0, 0)
		require.NoError(t, newClient(conn).Write([]byte("Hello, World!")))
		require.Equal(t, "Hello, World!", string(conn.Written()))
	})

	t.Run("too many stalls", func(t *testing.T) {
		conn := dummy.NewConn().WritePlan(5, 0, 0, 0)
		err := newClient(conn).Write([]byte("Hello, World!"))
		require.ErrorIs(t, err, io.ErrShortWrite)
		require.Equal(t, "Hello", string(conn.Written()))
		require.Equal(t, 4, conn.Writes())
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("connection reset")
		conn := dummy.NewConn().FailWrites(boom)
		require.ErrorIs(t, newClient(conn).Write([]byte("data")), boom)
	})

	t.Run("nothing to write", func(t *testing.T) {
		conn := dummy.NewConn()
		require.NoError(t, newClient(conn).Write(nil))
		require.Zero(t, conn.Writes())
	})
}

func TestClientClose(t *testing.T) {
	conn := dummy.NewConn([]byte("data"))
	client := newClient(conn)
	require.NoError(t, client.Close())
	require.True(t, conn.Closed())

	_, err := client.Read()
	require.Error(t, err)
}
