package http

import (
	"net"

	"github.com/indigo-web/reqpool/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request is a parsed request. All the strings and the body are owned by the request and stay
// valid after the raw input is gone.
type Request struct {
	// Method is the first token of the request line, as it was received.
	Method string
	// Path is the second token of the request line. It's neither decoded nor validated.
	Path string
	// Protocol is the rest of the request line, e.g. HTTP/1.1.
	Protocol string
	// Headers holds header fields in the order of their appearance. Names are neither
	// deduplicated nor normalized and the lookup is case-sensitive.
	Headers Headers
	// Body is everything after the empty line. It's nil if the request carries no body.
	Body []byte
	// Remote holds the remote address. It's set by the server and is nil in a freshly
	// parsed request.
	Remote net.Addr
}

// NewRequest returns an empty request with pre-allocated space for n header fields.
func NewRequest(n int) *Request {
	return &Request{
		Headers: kv.NewPrealloc(n),
	}
}

// Respond returns a new response builder with status code 200 OK.
func (r *Request) Respond() *Response {
	return NewResponse()
}
