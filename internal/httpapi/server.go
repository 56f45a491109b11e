// Package httpapi implements the bridge's HTTP surface: the print, reprint,
// and status-test endpoints, plus an additive server-sent-events stream for
// live connectivity updates. It follows this codebase's handlers package
// shape (a struct built by a constructor, wired with its collaborators, with
// a RegisterRoutes method) rather than bare package-level handler funcs
// (spec.md §6).
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"reika-bridge/internal/bridgeerr"
	"reika-bridge/internal/command"
	"reika-bridge/internal/joblog"
	"reika-bridge/internal/reprint"
	"reika-bridge/internal/retry"
	"reika-bridge/internal/statusbus"
	"reika-bridge/internal/telemetry"
	"reika-bridge/internal/usbtransport"
)

// wsPingInterval is how often handleStatusWS pings an open connection to
// detect a half-open socket, mirroring the teacher's agent websocket ping
// loop.
var wsPingInterval = 25 * time.Second

// upgrader permits any origin, matching this endpoint's permissive CORS
// policy for the sibling HTTP handlers.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// response is the single schema every print/status endpoint replies with
// (spec.md §6 "Responses share a single schema").
type response struct {
	IsConnected bool   `json:"is_connected"`
	Error       string `json:"error,omitempty"`
}

// Server wires the retry coordinator, status broadcaster, event queue, and
// job log into the four documented HTTP handlers.
type Server struct {
	coordinator *retry.Coordinator
	bus         *statusbus.ConnectivityBus
	events      *statusbus.EventQueue
	log         *telemetry.Logger
	jobs        *joblog.Log
}

// New builds a Server. jobs may be nil to disable persistent job history
// (an external collaborator per spec.md §1; this service degrades cleanly
// without it).
func New(coordinator *retry.Coordinator, bus *statusbus.ConnectivityBus, events *statusbus.EventQueue, log *telemetry.Logger, jobs *joblog.Log) *Server {
	return &Server{coordinator: coordinator, bus: bus, events: events, log: log, jobs: jobs}
}

// RegisterRoutes attaches every documented handler to mux and returns a
// cors.Handler-wrapped http.Handler ready to pass to http.Server (spec.md §6
// "permissive CORS (origin *, methods GET, POST, OPTIONS, headers include
// Content-Type)").
func (s *Server) RegisterRoutes(mux *http.ServeMux) http.Handler {
	mux.HandleFunc("/print/test", s.handlePrintTest)
	mux.HandleFunc("/print", s.handlePrint)
	mux.HandleFunc("/print/reprint", s.handlePrintReprint)
	mux.HandleFunc("/print/status/stream", s.handleStatusStream)
	mux.HandleFunc("/print/status/ws", s.handleStatusWS)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// handlePrintTest answers GET and POST /print/test (spec.md §6). GET
// performs a pure health probe via check_connection; POST decodes a
// {test_line, test_page} body and prints test_line through the normal retry
// path. test_page is decoded but not acted on: no test page is printed.
func (s *Server) handlePrintTest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.respondConnectionState(w)

	case http.MethodPost:
		var body struct {
			TestLine string `json:"test_line"`
			TestPage bool   `json:"test_page"`
		}
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, response{IsConnected: false, Error: bridgeerr.InvalidInput("invalid test request: %v", err).Error()})
				return
			}
		}

		cmds := []command.Command{{Name: command.Writeln, Str: body.TestLine}}
		s.runAndReport(w, cmds, false)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePrint answers POST /print (spec.md §6).
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Commands json.RawMessage `json:"commands"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{IsConnected: false, Error: bridgeerr.InvalidInput("invalid request body: %v", err).Error()})
		return
	}

	cmds, err := command.DecodeList(req.Commands)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{IsConnected: false, Error: err.Error()})
		return
	}

	s.runAndReport(w, cmds, true)
}

// handlePrintReprint answers POST /print/reprint (spec.md §4.4, §6).
func (s *Server) handlePrintReprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Commands json.RawMessage `json:"commands"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{IsConnected: false, Error: bridgeerr.InvalidInput("invalid request body: %v", err).Error()})
		return
	}

	cmds, err := command.DecodeList(req.Commands)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{IsConnected: false, Error: err.Error()})
		return
	}

	injected := reprint.Inject(cmds, time.Now())

	// Reprint jobs never touch the persistent job log (spec.md §4.4
	// "No logging"), so the returned job is discarded rather than appended.
	s.coordinator.WithRetry(func(t *usbtransport.Transport, jobID string) error {
		return command.DispatchList(t, injected, s.log, jobID)
	})

	s.respondConnectionState(w)
}

// runAndReport drives cmds through the retry coordinator with an implicit
// Init/PrintCut wrap, then appends a job-log entry when logEntry is true
// (spec.md §4.3 "Run", distinct from the reprint path).
func (s *Server) runAndReport(w http.ResponseWriter, cmds []command.Command, logEntry bool) {
	start := time.Now()

	j := s.coordinator.WithRetry(func(t *usbtransport.Transport, jobID string) error {
		return command.Run(t, cmds, s.log, jobID)
	})

	if logEntry && s.jobs != nil {
		_ = s.jobs.Append(joblog.Entry{
			ID:       j.ID,
			Status:   "OK",
			Attempts: j.Attempt,
			Duration: time.Since(start).String(),
			At:       start,
		})
	}

	s.respondConnectionState(w)
}

// respondConnectionState issues a fresh check_connection probe and replies
// with the documented {is_connected, error?} body, always at HTTP 200
// (spec.md §4.3 "Health probe", §6 "the status endpoint always returns 200").
func (s *Server) respondConnectionState(w http.ResponseWriter) {
	t := s.coordinator.Transport().Get()
	ok := t != nil && command.CheckConnection(t)
	if s.bus != nil {
		s.bus.Publish(ok)
	}

	if ok {
		writeJSON(w, http.StatusOK, response{IsConnected: true})
	} else {
		writeJSON(w, http.StatusOK, response{
			IsConnected: false,
			Error:       "The thermal printer is either not plugged in, or is in a not ready state.",
		})
	}
}

// handleStatusStream is an additive endpoint (not named in spec.md §6, whose
// in-process GUI observer is replaced here with an HTTP-reachable one) that
// streams connectivity transitions as server-sent events until the client
// disconnects.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.bus.Subscribe(r.RemoteAddr)
	defer s.bus.Unsubscribe(r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			return
		case online, ok := <-sub:
			if !ok {
				return
			}
			_, _ = w.Write(sseEvent(online))
			flusher.Flush()
		}
	}
}

func sseEvent(online bool) []byte {
	payload, _ := json.Marshal(response{IsConnected: online})
	return []byte("data: " + string(payload) + "\n\n")
}

// handleStatusWS is a websocket sibling of handleStatusStream for clients
// that prefer a persistent socket over SSE (the teacher's desktop GUI talks
// to its server this way). It upgrades the connection, pushes the current
// snapshot plus every subsequent transition as a JSON text message, and
// runs a server-side ping loop so a half-open connection is noticed and
// closed rather than left to leak (_examples/mstrhakr-printmaster/server/websocket.go).
func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.log != nil {
			s.log.Warn("status websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err.Error())
		}
		return
	}
	defer conn.Close()

	sub := s.bus.Subscribe(r.RemoteAddr)
	defer s.bus.Unsubscribe(r.RemoteAddr)

	done := make(chan struct{})
	go discardIncoming(conn, done)

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case online, ok := <-sub:
			if !ok {
				return
			}
			payload, _ := json.Marshal(response{IsConnected: online})
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// discardIncoming drains and ignores client frames, closing done the moment
// the connection errors or the client disconnects; this endpoint is
// server-push only and expects no client payloads.
func discardIncoming(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
