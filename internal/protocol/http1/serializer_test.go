package http1

import (
	"bufio"
	"bytes"
	"io"
	stdhttp "net/http"
	"testing"

	"github.com/indigo-web/reqpool/http"
	"github.com/indigo-web/reqpool/http/status"
	"github.com/stretchr/testify/require"
)

func readResponse(t *testing.T, data []byte) (*stdhttp.Response, string) {
	resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

func TestSerialize(t *testing.T) {
	t.Run("default builder", func(t *testing.T) {
		data := Serialize(nil, "HTTP/1.1", http.NewResponse())
		require.Equal(t,
			"HTTP/1.1 200 OK\r\n"+
				"Content-Type: text/plain\r\n"+
				"Content-Length: 0\r\n"+
				"Connection: close\r\n"+
				"\r\n",
			string(data),
		)
	})

	t.Run("headers and body", func(t *testing.T) {
		response := http.NewResponse().
			Code(status.Created).
			Header("X-Id", "1", "2").
			Header("Content-Length", "100500").
			Header("Connection", "keep-alive").
			String("Hello, World!")

		resp, body := readResponse(t, Serialize(nil, "HTTP/1.1", response))
		require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
		require.Equal(t, "201 Created", resp.Status)
		require.Equal(t, []string{"1", "2"}, resp.Header.Values("X-Id"))
		require.Equal(t, int64(13), resp.ContentLength)
		require.True(t, resp.Close)
		require.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		require.Equal(t, "Hello, World!", body)
	})

	t.Run("protocol", func(t *testing.T) {
		tcs := []struct {
			Request, Response string
		}{
			{"HTTP/1.0", "HTTP/1.0"},
			{"HTTP/1.1", "HTTP/1.1"},
			{"HTTP/2", "HTTP/1.1"},
			{"", "HTTP/1.1"},
			{"HTTP/1.1 extra", "HTTP/1.1"},
		}

		for _, tc := range tcs {
			data := Serialize(nil, tc.Request, http.NewResponse())
			require.True(t, bytes.HasPrefix(data, []byte(tc.Response+" 200 OK\r\n")), tc.Request)
		}
	})

	t.Run("error response", func(t *testing.T) {
		response := http.NewResponse().Error(status.ErrTooManyHeaders)
		resp, body := readResponse(t, Serialize(nil, "HTTP/1.1", response))
		require.Equal(t, stdhttp.StatusRequestHeaderFieldsTooLarge, resp.StatusCode)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.JSONEq(t,
			`{"code":431,"status":"Request Header Fields Too Large","error":"too many headers"}`,
			body,
		)
	})

	t.Run("appends to dst", func(t *testing.T) {
		dst := []byte("prefix")
		data := Serialize(dst, "HTTP/1.1", http.NewResponse().String("x"))
		require.True(t, bytes.HasPrefix(data, []byte("prefixHTTP/1.1 200 OK\r\n")))
		require.True(t, bytes.HasSuffix(data, []byte("\r\n\r\nx")))
	})
}

func BenchmarkSerialize(b *testing.B) {
	response := http.NewResponse().
		Header("Server", "reqpool").
		String("Hello, World!")
	buff := make([]byte, 0, 1024)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buff = Serialize(buff[:0], "HTTP/1.1", response)
	}
}
