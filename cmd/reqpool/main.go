package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/server"
)

type options struct {
	Addr        string
	Config      string
	Workers     int
	Queue       int
	MetricsAddr string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("reqpool", flag.ContinueOnError)
	fs.StringVar(&opts.Addr, "addr", ":8080", "address to listen on")
	fs.StringVar(&opts.Config, "config", "", "path to a YAML or JSON config file")
	fs.IntVar(&opts.Workers, "workers", 0, "number of pool workers, overrides the config")
	fs.IntVar(&opts.Queue, "queue", 0, "initial capacity of the pool queue, overrides the config")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "address to expose Prometheus metrics on, overrides the config")

	return opts, fs.Parse(args)
}

// loadConfig applies the config file, if any, and then the flags on top of the defaults.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()

	if len(opts.Config) > 0 {
		file, err := config.LoadFile(opts.Config)
		if err != nil {
			return nil, err
		}

		if err = file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", opts.Config, err)
		}
	}

	if opts.Workers > 0 {
		cfg.Pool.Workers = opts.Workers
	}
	if opts.Queue > 0 {
		cfg.Pool.QueueCapacity = opts.Queue
	}
	if len(opts.MetricsAddr) > 0 {
		cfg.Metrics.Addr = opts.MetricsAddr
	}

	return cfg, nil
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	app := server.New(cfg, server.EchoPath).
		NotifyOnStart(func() {
			log.Printf("reqpool: listening on %s with %d workers", opts.Addr, cfg.Pool.Workers)
		}).
		NotifyOnStop(func() {
			log.Print("reqpool: all connections are served")
		})

	if err = app.Bind(opts.Addr); err != nil {
		return fmt.Errorf("bind %s: %w", opts.Addr, err)
	}

	if len(cfg.Metrics.Addr) > 0 {
		metrics := serveMetrics(cfg.Metrics.Addr, app.Metrics())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metrics.Shutdown(shutdownCtx)
		}()
	}

	served, watcher := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(watcher)
		stopOnCancel(ctx, served, app.Stop)
	}()

	err = app.Serve()
	close(served)
	<-watcher

	return err
}

// stopOnCancel calls stop once ctx is done. It returns without calling it if served is closed
// first.
func stopOnCancel(ctx context.Context, served <-chan struct{}, stop func()) {
	select {
	case <-ctx.Done():
		log.Print("reqpool: shutting down, draining accepted connections")
		stop()
	case <-served:
	}
}

func serveMetrics(addr string, metrics *server.Metrics) *stdhttp.Server {
	mux := stdhttp.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &stdhttp.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Printf("reqpool: metrics endpoint: %s", err)
		}
	}()

	return srv
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	switch {
	case errors.Is(err, flag.ErrHelp):
		return
	case err != nil:
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, opts); err != nil {
		log.Printf("reqpool: %s", err)
		stop()
		os.Exit(1)
	}
}
