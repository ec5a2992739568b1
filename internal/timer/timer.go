package timer

import (
	"sync/atomic"
	"time"
)

// Resolution is how often the clock is refreshed. It's precise enough for I/O deadlines,
// which are measured in seconds.
const Resolution = 500 * time.Millisecond

var millis = new(atomic.Int64)

// Now returns the coarse current time. It's never behind the real one by more than a
// Resolution, and is much cheaper than time.Now() when called on every accept and read.
func Now() time.Time {
	ms := millis.Load()
	return time.UnixMilli(ms)
}

// Deadline returns a point in time at least d from the real current time, and no more than
// d+Resolution from it.
func Deadline(d time.Duration) time.Time {
	return Now().Add(d + Resolution)
}

func init() {
	// store before spawning the goroutine, so early callers never observe the zero time
	millis.Store(time.Now().UnixMilli())

	go func() {
		for {
			time.Sleep(Resolution)
			millis.Store(time.Now().UnixMilli())
		}
	}()
}
