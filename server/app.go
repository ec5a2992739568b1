package server

import (
	"errors"
	"log"
	"net"
	"sync/atomic"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/http"
	"github.com/indigo-web/reqpool/internal/protocol/http1"
	"github.com/indigo-web/reqpool/pool"
	"github.com/indigo-web/reqpool/transport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/indigo-web/reqpool/server"

var ErrNotBound = errors.New("server: the listener isn't bound")

// Handler produces a response for a successfully parsed request. It's called on a pool
// worker, so it may block, but only at the expense of other connections waiting.
type Handler func(request *http.Request) *http.Response

// EchoPath responds with the request path as plain text.
func EchoPath(request *http.Request) *http.Response {
	return http.String(request, request.Path)
}

// App is the serving context: it owns the listener and the pool, and drives them through
// New (init), Serve (run) and Stop (shutdown).
type App struct {
	cfg     *config.Config
	handler Handler
	parser  *http1.Parser
	tcp     *transport.TCP
	pool    atomic.Pointer[pool.Pool]
	metrics *Metrics
	tracer  trace.Tracer
	logger  *log.Logger
	hooks   hooks
}

// New returns a new App instance. If handler is nil, EchoPath is used.
func New(cfg *config.Config, handler Handler) *App {
	if handler == nil {
		handler = EchoPath
	}

	a := &App{
		cfg:     cfg,
		handler: handler,
		parser:  http1.NewParser(cfg.Request, cfg.Body),
		tcp:     transport.NewTCP(),
		tracer:  otel.Tracer(tracerName),
		logger:  log.Default(),
	}
	a.metrics = NewMetrics(a.pending)

	return a
}

// Trace replaces the globally registered tracer provider.
func (a *App) Trace(provider trace.TracerProvider) *App {
	a.tracer = provider.Tracer(tracerName)
	return a
}

// Logger replaces the standard logger.
func (a *App) Logger(logger *log.Logger) *App {
	a.logger = logger
	return a
}

// NotifyOnStart calls the callback once the pool is started and the accept loop is about
// to run.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback once every accepted connection is served and the pool is
// down.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Bind binds the listener to the address.
func (a *App) Bind(addr string) error {
	return a.tcp.Bind(addr)
}

// Addr returns the bound address or nil if Bind wasn't called yet.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

// Metrics returns the metrics collected by the app.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Serve starts the pool and accepts connections until Stop is called. Before returning,
// it waits until every accepted connection is served.
func (a *App) Serve() error {
	if a.tcp.Addr() == nil {
		return ErrNotBound
	}

	p, err := pool.New(a.cfg.Pool)
	if err != nil {
		return err
	}

	a.pool.Store(p)
	callIfNotNil(a.hooks.OnStart)

	err = a.tcp.Listen(a.cfg.NET, a.onConn)
	// draining
	p.Shutdown()
	a.pool.Store(nil)
	if cerr := a.tcp.Close(); err == nil && cerr != nil && !isClosed(cerr) {
		err = cerr
	}

	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop stops accepting new connections. Serve returns as soon as the already accepted
// ones are served.
//
// NOTE: the call isn't blocking. So by that, after the method returned, the server
// may still be working
func (a *App) Stop() {
	a.tcp.Stop()
	// interrupts the pending accept without waiting for the deadline
	_ = a.tcp.Close()
}

func (a *App) pending() int {
	if p := a.pool.Load(); p != nil {
		return p.Pending()
	}

	return 0
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
