// Package statusbus implements the Status Broadcaster: a last-value
// connectivity channel and a bounded sensor-event queue (spec.md §4.5). The
// actor shape — a run loop owning subscriber state, fed by register/
// unregister/broadcast channels — is the same one the house ws.Hub uses for
// websocket fan-out; this package generalizes it to a boolean connectivity
// value instead of arbitrary client messages and stays transport-agnostic
// (internal/httpapi's SSE and websocket endpoints are ordinary subscribers).
package statusbus

import (
	"sync"

	"reika-bridge/internal/telemetry"
)

type registration struct {
	id string
	ch chan bool
}

// ConnectivityBus publishes the latest printer connectivity state to many
// readers with last-value semantics: a subscriber always holds the most
// recent value, and is notified of every change, but is never required to
// observe an intermediate value it raced past (spec.md §4.5 "Connectivity
// channel").
type ConnectivityBus struct {
	mu    sync.RWMutex
	value bool

	register   chan registration
	unregister chan string
	publish    chan bool
	shutdown   chan struct{}

	log *telemetry.Logger
}

// NewConnectivityBus starts the bus's run loop. The initial published value
// is false (offline) until the caller's first Publish.
func NewConnectivityBus(log *telemetry.Logger) *ConnectivityBus {
	b := &ConnectivityBus{
		register:   make(chan registration),
		unregister: make(chan string),
		publish:    make(chan bool),
		shutdown:   make(chan struct{}),
		log:        log,
	}
	go b.run()
	return b
}

func (b *ConnectivityBus) run() {
	subs := make(map[string]chan bool)
	for {
		select {
		case reg := <-b.register:
			subs[reg.id] = reg.ch
			select {
			case reg.ch <- b.Snapshot():
			default:
			}
		case id := <-b.unregister:
			if ch, ok := subs[id]; ok {
				close(ch)
				delete(subs, id)
			}
		case v := <-b.publish:
			b.mu.Lock()
			b.value = v
			b.mu.Unlock()
			for _, ch := range subs {
				// Drain any stale value so the subscriber's single-slot
				// buffer always holds the latest, never a backlog.
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- v:
				default:
				}
			}
		case <-b.shutdown:
			for id, ch := range subs {
				close(ch)
				delete(subs, id)
			}
			return
		}
	}
}

// Publish sets the connectivity state observed by every current and future
// subscriber.
func (b *ConnectivityBus) Publish(online bool) {
	b.publish <- online
}

// Snapshot returns the most recently published value without subscribing.
func (b *ConnectivityBus) Snapshot() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Subscribe registers a single-slot channel under id, pre-loaded with the
// current value. Callers must eventually call Unsubscribe(id).
func (b *ConnectivityBus) Subscribe(id string) <-chan bool {
	ch := make(chan bool, 1)
	b.register <- registration{id: id, ch: ch}
	return ch
}

// Unsubscribe removes and closes the subscriber's channel.
func (b *ConnectivityBus) Unsubscribe(id string) {
	b.unregister <- id
}

// Close stops the run loop and closes every subscriber channel.
func (b *ConnectivityBus) Close() {
	close(b.shutdown)
}
