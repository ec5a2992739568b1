package http1

import (
	"bytes"
	"sync"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/http"
	"github.com/indigo-web/reqpool/http/status"
	"github.com/indigo-web/reqpool/internal/buffer"
)

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eHeaderLines
)

const (
	// how many header slots a freshly parsed request gets. The storage grows past it on demand
	// up to config.Request.MaxHeaders.
	preallocHeaders = 16
	// the line buffer starts small, as most of the lines are far from the limit
	initialLineSize = 256
)

var crlf = []byte("\r\n")

// Parser turns a complete raw request into an http.Request. It keeps no state between calls,
// therefore a single instance may be shared by any number of goroutines.
type Parser struct {
	cfg   config.Request
	body  config.Body
	lines sync.Pool
}

func NewParser(cfg config.Request, body config.Body) *Parser {
	p := &Parser{
		cfg:  cfg,
		body: body,
	}
	p.lines.New = func() any {
		return buffer.New(initialLineSize, cfg.MaxLineLength)
	}

	return p
}

// Parse processes the data in a single pass. Lines are terminated by CRLF only. The end of
// data terminates the request: an unfinished request line is malformed, while an unfinished
// header line becomes the body. On error the request is always nil and the error is always
// a status.HTTPError.
func (p *Parser) Parse(data []byte) (*http.Request, error) {
	line := p.lines.Get().(*buffer.Buffer)
	defer func() {
		line.Clear()
		p.lines.Put(line)
	}()

	request := http.NewRequest(min(preallocHeaders, p.cfg.MaxHeaders))
	state := eRequestLine

	for {
		end := bytes.Index(data, crlf)
		if end == -1 {
			break
		}

		if !line.Append(data[:end]) {
			return nil, status.ErrTooLongLine
		}

		data = data[end+len(crlf):]

		switch state {
		case eRequestLine:
			if err := p.requestLine(request, line.Preview()); err != nil {
				return nil, err
			}

			state = eHeaderLines
		case eHeaderLines:
			if line.Len() == 0 {
				// everything after the empty line is the body, no matter what it contains
				return p.withBody(request, data)
			}

			if err := p.headerLine(request, line.Preview()); err != nil {
				return nil, err
			}
		default:
			panic("unreachable code")
		}

		line.Clear()
	}

	if state == eRequestLine {
		return nil, status.ErrMalformedRequestLine
	}

	if !line.Append(data) {
		return nil, status.ErrTooLongLine
	}

	return p.withBody(request, line.Preview())
}

func (p *Parser) requestLine(request *http.Request, line []byte) error {
	method, line := token(line)
	if len(method) == 0 {
		return status.ErrMalformedRequestLine
	}
	if len(method) > p.cfg.MaxMethodLength {
		return status.ErrTooLongMethod
	}

	path, line := token(line)
	if len(path) == 0 {
		return status.ErrMalformedRequestLine
	}
	if len(path) > p.cfg.MaxPathLength {
		return status.ErrURITooLong
	}

	// the protocol takes the rest of the line, including any extra fields
	protocol := bytes.TrimRight(skipSpaces(line), " ")
	if len(protocol) == 0 {
		return status.ErrMalformedRequestLine
	}
	if len(protocol) > p.cfg.MaxProtocolLength {
		return status.ErrTooLongProtocol
	}

	request.Method = string(method)
	request.Path = string(path)
	request.Protocol = string(protocol)

	return nil
}

func (p *Parser) headerLine(request *http.Request, line []byte) error {
	if request.Headers.Len() >= p.cfg.MaxHeaders {
		return status.ErrTooManyHeaders
	}

	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return status.ErrMalformedHeader
	}

	name, value := line[:colon], skipSpaces(line[colon+1:])
	if len(name) > p.cfg.MaxHeaderNameLength {
		return status.ErrTooLongHeaderName
	}
	if len(value) > p.cfg.MaxHeaderValueLength {
		return status.ErrTooLongHeaderValue
	}

	request.Headers.Add(string(name), string(value))

	return nil
}

func (p *Parser) withBody(request *http.Request, body []byte) (*http.Request, error) {
	if len(body) > p.body.MaxSize {
		return nil, status.ErrBodyTooLarge
	}

	if len(body) > 0 {
		request.Body = bytes.Clone(body)
	}

	return request, nil
}

// token skips leading spaces and returns the bytes up to the next space along with
// everything after it.
func token(line []byte) (tok, rest []byte) {
	line = skipSpaces(line)
	if sp := bytes.IndexByte(line, ' '); sp != -1 {
		return line[:sp], line[sp:]
	}

	return line, nil
}

func skipSpaces(b []byte) []byte {
	for i, c := range b {
		if c != ' ' {
			return b[i:]
		}
	}

	return nil
}
