package http1

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/http/status"
	"github.com/indigo-web/reqpool/transport"
	"github.com/indigo-web/utils/uf"
)

var (
	headTerminator = []byte("\r\n\r\n")
	contentLength  = []byte("\r\nContent-Length:")
)

// ReadRequest reads a single raw request from the client. Reading stops at the end of the
// headers section. If the head declares a Content-Length, the body is awaited and trimmed to
// it; otherwise everything received so far, body bytes included, is returned. A connection
// closed halfway isn't an error: whatever was received is returned, so the
// parser decides whether it makes sense. io.EOF is returned only if nothing was received.
func ReadRequest(client transport.Client, cfg *config.Config) ([]byte, error) {
	data := make([]byte, 0, cfg.NET.ReadBufferSize)

	for {
		chunk, err := client.Read()
		data = append(data, chunk...)

		if end := bytes.Index(data, headTerminator); end != -1 {
			if end > cfg.NET.MaxHeadSize {
				return nil, status.ErrHeaderFieldsTooLarge
			}

			if err != nil {
				// the body, if any, won't arrive anymore
				return data, nil
			}

			return readBody(client, cfg, data, end+len(headTerminator))
		}

		if len(data) > cfg.NET.MaxHeadSize {
			return nil, status.ErrHeaderFieldsTooLarge
		}

		if err != nil {
			return finish(data, err)
		}
	}
}

func readBody(client transport.Client, cfg *config.Config, data []byte, headEnd int) ([]byte, error) {
	length, declared, err := parseContentLength(data[:headEnd])
	if err != nil {
		return nil, err
	}

	if !declared {
		return data, nil
	}

	if length > cfg.Body.MaxSize {
		return nil, status.ErrBodyTooLarge
	}

	for len(data)-headEnd < length {
		chunk, err := client.Read()
		data = append(data, chunk...)
		if err != nil {
			if len(data)-headEnd >= length {
				break
			}

			return finish(data, err)
		}
	}

	// pipelined requests aren't supported, the excess is dropped
	return data[:headEnd+length], nil
}

// parseContentLength looks up the Content-Length header field in the head. The name is
// matched exactly as the parser does.
func parseContentLength(head []byte) (length int, found bool, err error) {
	start := bytes.Index(head, contentLength)
	if start == -1 {
		return 0, false, nil
	}

	value := head[start+len(contentLength):]
	value = value[:bytes.Index(value, crlf)]

	length, err = strconv.Atoi(strings.TrimSpace(uf.B2S(value)))
	if err != nil || length < 0 {
		return 0, true, status.ErrBadRequest
	}

	return length, true, nil
}

func finish(data []byte, err error) ([]byte, error) {
	switch {
	case errors.Is(err, io.EOF):
		if len(data) == 0 {
			return nil, io.EOF
		}

		return data, nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return nil, status.ErrRequestTimeout
	default:
		return nil, err
	}
}
