// Package job defines PrintJob, the correlation token created at entry to the
// retry coordinator and threaded through every log line for a single print
// attempt (spec.md §3, §4.2).
package job

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var counter uint64

// PrintJob correlates every log line and sensor event produced while a single
// with_retry invocation is in flight.
type PrintJob struct {
	// ID is the spec's 8-hex-char correlation token: the low 16 bits of the
	// creation time in milliseconds, concatenated with the low 16 bits of a
	// process-wide counter. It is what §8's testable properties and the
	// [PRINT_SUMMARY]/[PRINT_FAILURE] log lines match against.
	ID string
	// TraceID is a UUID carried alongside ID so external consumers (the GUI,
	// the sensor collector) that already correlate on UUIDs elsewhere in the
	// wider system can join on a stable identifier. It never appears in the
	// [PRINT_SUMMARY]/[PRINT_FAILURE] lines themselves.
	TraceID string
	// StartedAt is the monotonic-clock reading taken at creation, used to
	// compute elapsed/duration fields in log lines.
	StartedAt time.Time
	// Attempt is the 1-based attempt counter, incremented by the retry
	// coordinator on every iteration of its loop.
	Attempt int
}

// New creates a PrintJob with Attempt starting at 1.
func New() *PrintJob {
	now := time.Now()
	millis := uint64(now.UnixMilli())
	n := atomic.AddUint64(&counter, 1)

	return &PrintJob{
		ID:        fmt.Sprintf("%04x%04x", uint16(millis), uint16(n)),
		TraceID:   uuid.NewString(),
		StartedAt: now,
		Attempt:   1,
	}
}

// Elapsed returns the duration since the job was created.
func (j *PrintJob) Elapsed() time.Duration {
	return time.Since(j.StartedAt)
}
