package config

import "time"

type (
	Pool struct {
		// Workers is the number of long-lived workers. It never changes after the pool is
		// started.
		Workers int
		// QueueCapacity is the initial number of slots in the work queue. Values outside
		// [1, 1_000_000) fall back to a single slot. The queue doubles whenever a submission
		// finds it full, so this is a starting point rather than a limit.
		QueueCapacity int
		// GrowthCeiling is the maximal number of slots the queue may reach by doubling. Once
		// it's reached, submissions are rejected.
		GrowthCeiling int
	}

	Request struct {
		// MaxLineLength limits a single CRLF-terminated line of the request line or the
		// headers section.
		MaxLineLength int
		// MaxMethodLength, MaxPathLength and MaxProtocolLength limit the tokens of the
		// request line.
		MaxMethodLength   int
		MaxPathLength     int
		MaxProtocolLength int
		// MaxHeaderNameLength and MaxHeaderValueLength limit each header field.
		MaxHeaderNameLength  int
		MaxHeaderValueLength int
		// MaxHeaders is the maximal number of header fields allowed to be presented.
		MaxHeaders int
	}

	Body struct {
		// MaxSize describes the maximal size of a body, that can be processed. 0 will discard
		// any request with body.
		MaxSize int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout limits how long a single read may block. A client that stays silent
		// for longer is disconnected.
		ReadTimeout time.Duration
		// WriteTimeout limits how long writing a response may block.
		WriteTimeout time.Duration
		// WriteRetries is how many consecutive writes are allowed to make no progress before
		// the response is considered lost.
		WriteRetries int
		// MaxHeadSize limits the amount of bytes read while waiting for the end of the
		// headers section.
		MaxHeadSize int
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}

	Log struct {
		// Requests enables a log line per served request.
		Requests bool
		// Color colorizes request log lines by status class.
		Color bool `test:"nullable"`
	}

	Metrics struct {
		// Addr is where the metrics endpoint is served. Empty disables it.
		Addr string `test:"nullable"`
	}
)

// Config holds settings used across various parts of reqpool, mainly restrictions, limitations
// and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Pool    Pool
	Request Request
	Body    Body
	NET     NET
	Log     Log
	Metrics Metrics
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Pool: Pool{
			Workers:       4,
			QueueCapacity: 4,
			GrowthCeiling: 1_000_000_000,
		},
		Request: Request{
			MaxLineLength:        1024,
			MaxMethodLength:      10,
			MaxPathLength:        512,
			MaxProtocolLength:    20,
			MaxHeaderNameLength:  50,
			MaxHeaderValueLength: 1024,
			MaxHeaders:           50,
		},
		Body: Body{
			MaxSize: 10 * 1024 * 1024, // 10mb
		},
		NET: NET{
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               30 * time.Second,
			WriteTimeout:              30 * time.Second,
			WriteRetries:              3,
			MaxHeadSize:               64 * 1024,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Log: Log{
			Requests: true,
			Color:    true,
		},
	}
}
