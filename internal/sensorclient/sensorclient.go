// Package sensorclient is the optional outbound reporter that tells a remote
// server this bridge's connectivity state (spec.md §6 "sensor_reporter").
// It is grounded on this codebase's ReportSubmitter (agent/report.go), which
// builds a JSON payload and POSTs it with a bounded-timeout http.Client; here
// the payload shrinks to a single state value and retry moves from a
// hand-rolled backoff loop to github.com/cenkalti/backoff, already part of
// this codebase's dependency set. The reporter strictly observes the retry
// coordinator's published connectivity state — it never feeds back into
// retry or reconnect decisions (spec.md §9 "one-way dependency").
package sensorclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"

	"reika-bridge/internal/config"
	"reika-bridge/internal/statusbus"
	"reika-bridge/internal/telemetry"
)

// State is the value reported in the POST body.
type State string

const (
	Online    State = "ONLINE"
	Offline   State = "OFFLINE"
	UsbError  State = "USB_ERROR"
	PrintFail State = "PRINT_FAIL"
)

// heartbeatInterval is how often the last-known state is resent even absent
// a transition (spec.md §6 "heartbeat every 60 seconds"). A var so tests can
// shrink it.
var heartbeatInterval = 60 * time.Second

type reportBody struct {
	Value string `json:"value"`
}

// Reporter posts connectivity/sensor state changes to a configured remote
// server. A Reporter whose ServerURL or APIKey is empty is inert: Report is a
// no-op and RunHeartbeat/RunEventReporter return immediately.
type Reporter struct {
	cfg    config.SensorReporterConfig
	log    *telemetry.Logger
	client *http.Client
}

// New builds a Reporter. The embedded client skips TLS certificate
// verification because these bridges typically report to a self-hosted
// server reachable only by IP, often without a trusted certificate
// (spec.md §6 "TLS verification disabled").
func New(cfg config.SensorReporterConfig, log *telemetry.Logger) *Reporter {
	return &Reporter{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

func (r *Reporter) enabled() bool {
	return r.cfg.ServerURL != "" && r.cfg.APIKey != ""
}

// Report sends state immediately, retrying with exponential backoff until
// ctx is done. It never returns an error to the caller: a failed report is
// logged and abandoned once ctx expires, since sensor reporting must never
// block or fail a print job (spec.md §9 "never touches retry decisions").
func (r *Reporter) Report(ctx context.Context, state State) {
	if !r.enabled() {
		return
	}

	op := func() error { return r.send(ctx, state) }

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0 // bounded instead by ctx below
	bctx := backoff.WithContext(b, ctx)

	if err := backoff.Retry(op, bctx); err != nil {
		if r.log != nil {
			r.log.Warn("sensor report abandoned", "state", string(state), "error", err.Error())
		}
	}
}

func (r *Reporter) send(ctx context.Context, state State) error {
	body, err := json.Marshal(reportBody{Value: string(state)})
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshal sensor report: %w", err))
	}

	url := r.cfg.ServerURL + "/api/sensors/report"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build sensor report request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sensor-Key", r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("sensor report request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("sensor report server error: %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return backoff.Permanent(fmt.Errorf("sensor report rejected: %d", resp.StatusCode))
	}
	return nil
}

// RunHeartbeat subscribes to bus and reports every connectivity transition
// immediately, plus the last-known state every heartbeatInterval regardless
// of change, until ctx is cancelled (spec.md §6). Intended to run in its own
// goroutine for the lifetime of the process.
func (r *Reporter) RunHeartbeat(ctx context.Context, bus *statusbus.ConnectivityBus) {
	if !r.enabled() {
		return
	}

	sub := bus.Subscribe("sensorclient")
	defer bus.Unsubscribe("sensorclient")

	last := bus.Snapshot()
	r.Report(ctx, stateFor(last))

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-sub:
			if !ok {
				return
			}
			last = online
			r.Report(ctx, stateFor(last))
		case <-ticker.C:
			r.Report(ctx, stateFor(last))
		}
	}
}

func stateFor(online bool) State {
	if online {
		return Online
	}
	return Offline
}

// RunEventReporter drains events and reports each one's state, until ctx is
// done or the queue is closed. It is the event channel's single consumer
// (spec.md §4.5), running alongside RunHeartbeat so a USB_ERROR or
// PRINT_FAIL enqueued by the retry coordinator actually reaches the remote
// server rather than only ever being reflected in the connectivity bus.
func (r *Reporter) RunEventReporter(ctx context.Context, events *statusbus.EventQueue) {
	if !r.enabled() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events.Events():
			if !ok {
				return
			}
			r.Report(ctx, stateForEvent(ev.Kind))
		}
	}
}

func stateForEvent(kind statusbus.SensorEventKind) State {
	switch kind {
	case statusbus.UsbError:
		return UsbError
	default:
		return PrintFail
	}
}
