package statusbus

import (
	"sync"
	"time"

	"reika-bridge/internal/telemetry"
)

// SensorEventKind discriminates the two SensorEvent variants (spec.md §3).
type SensorEventKind string

const (
	UsbError  SensorEventKind = "USB_ERROR"
	PrintFail SensorEventKind = "PRINT_FAIL"
)

// SensorEvent is a fire-and-forget diagnostic event. The Retry Coordinator
// enqueues every one: PrintFail for each failed attempt, and UsbError when
// the failure is one of the USB Transport's own (partial write, timeout,
// device or claim errors) and for each failed reconnect open.
type SensorEvent struct {
	Kind   SensorEventKind
	Reason string
	At     time.Time
}

// EventQueue is a bounded multi-producer, single-consumer queue. On overflow
// the oldest event is dropped and a warning is logged; enqueue never blocks,
// so a jammed printer producing events faster than the consumer drains them
// cannot back-pressure the hot path (spec.md §4.5, testable property 7).
type EventQueue struct {
	mu     sync.Mutex
	events chan SensorEvent
	log    *telemetry.Logger
}

// NewEventQueue creates a queue with room for capacity events.
func NewEventQueue(capacity int, log *telemetry.Logger) *EventQueue {
	return &EventQueue{
		events: make(chan SensorEvent, capacity),
		log:    log,
	}
}

// Enqueue adds an event, dropping the oldest queued event if the queue is
// full. This never blocks.
func (q *EventQueue) Enqueue(kind SensorEventKind, reason string) {
	ev := SensorEvent{Kind: kind, Reason: reason, At: time.Now()}

	q.mu.Lock()
	defer q.mu.Unlock()

	select {
	case q.events <- ev:
		return
	default:
	}

	// Full: drop the oldest and make room for the new event.
	select {
	case dropped := <-q.events:
		if q.log != nil {
			q.log.Warn("sensor event queue full, dropping oldest event",
				"dropped_kind", string(dropped.Kind), "dropped_reason", dropped.Reason)
		}
	default:
	}
	select {
	case q.events <- ev:
	default:
		// Another producer raced us and refilled the slot; the new event is
		// itself dropped rather than blocking the caller.
	}
}

// Events returns the channel consumers should range over to drain events.
func (q *EventQueue) Events() <-chan SensorEvent {
	return q.events
}
