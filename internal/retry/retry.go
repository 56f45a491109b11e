// Package retry implements the Retry Coordinator: it executes a caller's
// printer operation to success, indefinitely, reconnecting the USB Transport
// between attempts and publishing connectivity/sensor events as it goes
// (spec.md §4.2). The Coordinator never returns an error to its caller for an
// I/O failure — the only way out of with_retry (besides process exit) is
// success.
package retry

import (
	"fmt"
	"sync"
	"time"

	"reika-bridge/internal/bridgeerr"
	"reika-bridge/internal/config"
	"reika-bridge/internal/job"
	"reika-bridge/internal/statusbus"
	"reika-bridge/internal/telemetry"
	"reika-bridge/internal/usbtransport"
)

// reconnectBackoff is the pause between failed reconnect attempts (spec.md
// §4.2 "sleeps 5 seconds and retries"). A var, not a const, so tests can
// shrink it rather than waiting out the real delay.
var reconnectBackoff = 5 * time.Second

// openTransport is a package-level indirection over usbtransport.Open so
// tests can substitute a fake opener without a real USB stack.
var openTransport = usbtransport.Open

// TransportRef is the mutable, lock-protected pointer to the live Transport
// (spec.md §9 "mutable singleton transport"). Write path and reconnect path
// are its only two consumers; Set is atomic with respect to Get.
type TransportRef struct {
	mu sync.RWMutex
	t  *usbtransport.Transport
}

// NewTransportRef wraps an already-opened Transport.
func NewTransportRef(t *usbtransport.Transport) *TransportRef {
	return &TransportRef{t: t}
}

// Get returns the currently live Transport.
func (r *TransportRef) Get() *usbtransport.Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t
}

// Set atomically replaces the live Transport.
func (r *TransportRef) Set(t *usbtransport.Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t = t
}

// Op is a printer operation the Coordinator drives to success. It receives
// the currently live Transport and the in-flight job's correlation id.
type Op func(t *usbtransport.Transport, jobID string) error

// Coordinator wraps Op invocations in the reconnect-and-retry loop described
// in spec.md §4.2.
type Coordinator struct {
	ref    *TransportRef
	cfg    config.UsbConfig
	log    *telemetry.Logger
	bus    *statusbus.ConnectivityBus
	events *statusbus.EventQueue
}

// New builds a Coordinator around an already-open initial Transport.
func New(initial *usbtransport.Transport, cfg config.UsbConfig, log *telemetry.Logger, bus *statusbus.ConnectivityBus, events *statusbus.EventQueue) *Coordinator {
	return &Coordinator{
		ref:    NewTransportRef(initial),
		cfg:    cfg,
		log:    log,
		bus:    bus,
		events: events,
	}
}

// Transport exposes the live transport reference for read access outside the
// retry loop (e.g. the health-probe operation, which must not go through
// WithRetry at all).
func (c *Coordinator) Transport() *TransportRef { return c.ref }

// WithRetry generates a PrintJob, then loops: clone the current Transport
// reference, invoke op, and on failure publish offline, enqueue a
// SensorEvent::PrintFail, reconnect, and try again — forever. It returns only
// on success (spec.md §4.2 "Algorithm", §9 "Uncancellable retry"), handing
// back the completed job so the caller can log a history entry bearing the
// real attempt count and total duration.
func (c *Coordinator) WithRetry(op Op) *job.PrintJob {
	j := job.New()

	for {
		t := c.ref.Get()
		start := time.Now()
		err := op(t, j.ID)
		elapsed := time.Since(start)

		if err == nil {
			if c.log != nil {
				c.log.Info("[PRINT_SUMMARY]",
					"id", j.ID, "status", "OK", "attempts", j.Attempt, "duration", elapsed.String())
			}
			return j
		}

		cause := causeOf(err)
		if c.log != nil {
			c.log.Error(fmt.Sprintf("[PRINT_FAILURE] attempt #%d failed", j.Attempt),
				"id", j.ID, "attempt", j.Attempt, "elapsed", elapsed.String(), "cause", cause)
		}

		if c.bus != nil {
			c.bus.Publish(false)
		}
		if c.events != nil {
			c.events.Enqueue(statusbus.PrintFail, cause)
			if bridgeerr.IsTransportFailure(err) {
				c.events.Enqueue(statusbus.UsbError, cause)
			}
		}

		c.reconnect()
		j.Attempt++
	}
}

// reconnect publishes offline, then opens a fresh Transport in an infinite
// loop (5 second pause between misses), swaps it into the TransportRef, and
// publishes online (spec.md §4.2 "reconnect" steps 1-4).
func (c *Coordinator) reconnect() {
	if c.bus != nil {
		c.bus.Publish(false)
	}

	for {
		t, err := openTransport(c.cfg, c.log)
		if err == nil {
			c.ref.Set(t)
			if c.bus != nil {
				c.bus.Publish(true)
			}
			return
		}

		if c.events != nil {
			c.events.Enqueue(statusbus.UsbError, causeOf(err))
		}
		if c.log != nil {
			c.log.WarnRateLimited("reconnect-miss", reconnectBackoff,
				"reconnect attempt failed, will retry", "cause", causeOf(err))
		}
		time.Sleep(reconnectBackoff)
	}
}

func causeOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
