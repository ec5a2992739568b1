package http

import (
	"github.com/indigo-web/reqpool/http/mime"
	"github.com/indigo-web/reqpool/http/status"
	"github.com/indigo-web/reqpool/kv"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// most responses carry no more than a handful of custom fields
const responseHeadersPrealloc = 4

// Fields is what the builder has collected so far. The serializer reads it via Reveal.
type Fields struct {
	Code        status.Code
	ContentType mime.MIME
	Headers     *kv.Storage
	Body        []byte
}

// Response is a chainable builder. Each method mutates the builder and returns it.
type Response struct {
	fields Fields
}

// NewResponse starts an empty 200 OK text/plain response.
func NewResponse() *Response {
	return &Response{fields: Fields{
		Code:        status.OK,
		ContentType: mime.Plain,
		Headers:     kv.NewPrealloc(responseHeadersPrealloc),
	}}
}

func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// Header adds a field per value. Content-Type goes to ContentType instead. Content-Length and
// Connection are dropped by the serializer, which sets them on its own.
func (r *Response) Header(key string, values ...string) *Response {
	if key == "Content-Type" {
		if len(values) > 0 {
			r.ContentType(values[0])
		}

		return r
	}

	for _, v := range values {
		r.fields.Headers.Add(key, v)
	}

	return r
}

// String uses the string's memory as the body, no copy is made.
func (r *Response) String(body string) *Response {
	r.fields.Body = uf.S2B(body)
	return r
}

// Bytes uses the slice as the body, no copy is made.
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Write appends to the body. It never fails.
func (r *Response) Write(b []byte) (int, error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// TryJSON replaces the body with the encoded model and switches the content type to
// application/json.
func (r *Response) TryJSON(model any) (*Response, error) {
	// the previous body may be read-only memory of a string, so never write over it
	r.fields.Body = nil

	stream := json.ConfigDefault.BorrowStream(r)
	defer json.ConfigDefault.ReturnStream(stream)
	stream.WriteVal(model)
	if err := stream.Flush(); err != nil {
		return r, err
	}

	return r.ContentType(mime.JSON), stream.Error
}

// JSON is TryJSON with the encoding error turned into an error response.
func (r *Response) JSON(model any) *Response {
	if _, err := r.TryJSON(model); err != nil {
		return r.Error(err)
	}

	return r
}

// ErrorBody is how errors are presented to the client.
type ErrorBody struct {
	Code   status.Code   `json:"code"`
	Status status.Status `json:"status"`
	Error  string        `json:"error"`
}

// Error makes a JSON error response out of err. A status.HTTPError brings its own code;
// otherwise the optional code is used, 500 by default. A nil err leaves the response intact.
func (r *Response) Error(err error, code ...status.Code) *Response {
	if err == nil {
		return r
	}

	c := status.InternalServerError
	if httpErr, ok := err.(status.HTTPError); ok {
		c = httpErr.Code
	} else if len(code) > 0 {
		c = code[0]
	}

	body := ErrorBody{Code: c, Status: status.Text(c), Error: err.Error()}
	if _, encErr := r.Code(c).TryJSON(body); encErr != nil {
		return r.ContentType(mime.Plain).String(body.Error)
	}

	return r
}

func (r *Response) Reveal() *Fields {
	return &r.fields
}

// String is a shorthand for request.Respond().String(body).
func String(request *Request, body string) *Response {
	return request.Respond().String(body)
}

// JSON is a shorthand for request.Respond().JSON(model).
func JSON(request *Request, model any) *Response {
	return request.Respond().JSON(model)
}
