package http1

import (
	"strconv"

	"github.com/indigo-web/reqpool/http"
	"github.com/indigo-web/reqpool/http/status"
)

const (
	http10 = "HTTP/1.0"
	http11 = "HTTP/1.1"
)

// Serialize appends the response to dst and returns the extended slice. The protocol of the
// request is echoed if it's HTTP/1.0 or HTTP/1.1, otherwise HTTP/1.1 is used. The connection
// is always announced to be closed, as it's never reused.
func Serialize(dst []byte, protocol string, response *http.Response) []byte {
	resp := response.Reveal()

	dst = appendProtocol(dst, protocol)
	dst = strconv.AppendUint(dst, uint64(resp.Code), 10)
	dst = append(dst, ' ')
	dst = append(dst, status.Text(resp.Code)...)
	dst = appendCRLF(dst)

	for key, value := range resp.Headers.Pairs() {
		switch key {
		case "Content-Length", "Connection":
			// always set by us
			continue
		}

		dst = appendHeader(dst, key, value)
	}

	if len(resp.ContentType) > 0 {
		dst = appendHeader(dst, "Content-Type", resp.ContentType)
	}

	dst = append(dst, "Content-Length: "...)
	dst = strconv.AppendInt(dst, int64(len(resp.Body)), 10)
	dst = appendCRLF(dst)
	dst = appendHeader(dst, "Connection", "close")
	dst = appendCRLF(dst)

	return append(dst, resp.Body...)
}

func appendProtocol(dst []byte, protocol string) []byte {
	switch protocol {
	case http10, http11:
	default:
		protocol = http11
	}

	dst = append(dst, protocol...)
	return append(dst, ' ')
}

func appendHeader(dst []byte, key, value string) []byte {
	dst = append(dst, key...)
	dst = append(dst, ": "...)
	dst = append(dst, value...)
	return appendCRLF(dst)
}

func appendCRLF(dst []byte) []byte {
	return append(dst, '\r', '\n')
}
