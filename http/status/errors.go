package status

// HTTPError is an error which knows what response it must result in.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrTooLongLine          = NewError(BadRequest, "request line or header field is too long")
	ErrMalformedRequestLine = NewError(BadRequest, "malformed request line")
	ErrMalformedHeader      = NewError(BadRequest, "malformed header field")
	ErrRequestTimeout       = NewError(RequestTimeout, "request timeout")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrURITooLong           = NewError(RequestURITooLong, "request URI too long")
	ErrTooLongHeaderName    = NewError(RequestHeaderFieldsTooLarge, "header name is too long")
	ErrTooLongHeaderValue   = NewError(RequestHeaderFieldsTooLarge, "header value is too long")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrTooLongMethod        = NewError(NotImplemented, "request method is too long")
	ErrServiceUnavailable   = NewError(ServiceUnavailable, "service unavailable")
	ErrTooLongProtocol      = NewError(HTTPVersionNotSupported, "protocol is too long")
)
