package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/indigo-web/reqpool/http"
	"github.com/indigo-web/reqpool/http/status"
	"github.com/indigo-web/reqpool/internal/protocol/http1"
	"github.com/indigo-web/reqpool/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const initialResponseSize = 1024

var responseBuffers = sync.Pool{
	New: func() any {
		buff := make([]byte, 0, initialResponseSize)
		return &buff
	},
}

// onConn runs on the accept loop goroutine, so the connection is handed off to the pool
// right away. If the pool can't take it, the client is told to come back later.
func (a *App) onConn(conn net.Conn) {
	client := transport.NewClient(conn, a.cfg.NET)

	p := a.pool.Load()
	if p != nil && p.Submit(func() { a.serve(client) }) {
		a.metrics.submission(true)
		return
	}

	a.metrics.submission(false)
	a.reject(client)
}

func (a *App) reject(client transport.Client) {
	defer func() { _ = client.Close() }()

	response := http.NewResponse().Error(status.ErrServiceUnavailable)
	if err := a.write(client, "", response); err != nil {
		a.logger.Printf("failed to reject %s: %s", client.Remote(), err)
	}

	a.metrics.response(status.ServiceUnavailable)
}

// serve is the unit of work executed by a pool worker: read, parse, handle, respond, close.
func (a *App) serve(client transport.Client) {
	defer func() { _ = client.Close() }()

	start := time.Now()
	_, span := a.tracer.Start(context.Background(), "reqpool.request",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	request, response, err := a.handle(client)
	if response == nil {
		// nothing to respond to
		if err != nil && !errors.Is(err, io.EOF) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			a.logger.Printf("failed to read from %s: %s", client.Remote(), err)
		}

		return
	}

	method, path, protocol := "-", "-", ""
	if request != nil {
		method, path, protocol = request.Method, request.Path, request.Protocol
	}

	code := response.Reveal().Code
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", int(code)),
	)
	if err != nil {
		span.RecordError(err)
	}
	if code >= status.InternalServerError {
		span.SetStatus(codes.Error, string(status.Text(code)))
	}

	if werr := a.write(client, protocol, response); werr != nil {
		span.RecordError(werr)
		a.logger.Printf("failed to respond to %s: %s", client.Remote(), werr)
	}

	elapsed := time.Since(start)
	a.metrics.response(code)
	a.metrics.observe(elapsed)
	a.logRequest(method, path, code, elapsed)
}

// handle returns either a response to be sent, or nil if the connection must be just
// closed. The error is returned for the sake of reporting.
func (a *App) handle(client transport.Client) (*http.Request, *http.Response, error) {
	data, err := http1.ReadRequest(client, a.cfg)
	if err != nil {
		var httpErr status.HTTPError
		if !errors.As(err, &httpErr) {
			return nil, nil, err
		}

		a.metrics.parseError(httpErr.Code)
		return nil, http.NewResponse().Error(err), err
	}

	request, err := a.parser.Parse(data)
	if err != nil {
		a.metrics.parseError(err.(status.HTTPError).Code)
		return nil, http.NewResponse().Error(err), err
	}

	request.Remote = client.Remote()
	response, err := a.call(request)

	return request, response, err
}

// call invokes the handler, recovering it if it panics.
func (a *App) call(request *http.Request) (response *http.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
			a.logger.Printf("%s %s: %s", request.Method, request.Path, err)
			response = request.Respond().Error(status.ErrInternalServerError)
		}
	}()

	response = a.handler(request)
	if response == nil {
		response = request.Respond()
	}

	return response, nil
}

func (a *App) write(client transport.Client, protocol string, response *http.Response) error {
	buff := responseBuffers.Get().(*[]byte)
	*buff = http1.Serialize((*buff)[:0], protocol, response)
	err := client.Write(*buff)
	responseBuffers.Put(buff)

	return err
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
