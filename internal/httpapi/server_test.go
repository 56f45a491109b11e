package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"reika-bridge/internal/config"
	"reika-bridge/internal/retry"
	"reika-bridge/internal/statusbus"
)

// newTestServer builds a Server whose coordinator holds a nil Transport, so
// command.CheckConnection always reports offline without touching a real USB
// stack; the retry loop itself is never exercised by these tests because no
// handler here calls a path that invokes WithRetry against a reconnect that
// would try to open a device.
func newTestServer() *Server {
	bus := statusbus.NewConnectivityBus(nil)
	events := statusbus.NewEventQueue(4, nil)
	c := retry.New(nil, config.UsbConfig{}, nil, bus, events)
	return New(c, bus, events, nil, nil)
}

func TestGetPrintTestReportsDisconnected(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	mux := http.NewServeMux()
	h := s.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/print/test", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.IsConnected {
		t.Error("expected is_connected=false with a nil transport")
	}
	if body.Error == "" {
		t.Error("expected a non-empty error message when disconnected")
	}
}

func TestPostPrintRejectsMalformedCommand(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	mux := http.NewServeMux()
	h := s.RegisterRoutes(mux)

	payload := bytes.NewBufferString(`{"commands":[{"command":"Nope"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/print", payload)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.IsConnected {
		t.Error("expected is_connected=false on a rejected request")
	}
	if body.Error == "" {
		t.Error("expected an error message describing the invalid command")
	}
}

func TestPostPrintRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	mux := http.NewServeMux()
	h := s.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/print", bytes.NewBufferString(`not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCORSPreflightAllowsConfiguredOriginAndMethods(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	mux := http.NewServeMux()
	h := s.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodOptions, "/print", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin=*, got %q", got)
	}
}

func TestStatusStreamSendsSnapshotOnConnect(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.bus.Publish(true)

	mux := http.NewServeMux()
	h := s.RegisterRoutes(mux)
	srv := httptest.NewServer(h)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/print/status/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET status stream: %v", err)
	}
	defer resp.Body.Close()

	buf := make([]byte, 256)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("read SSE frame: %v", err)
	}

	frame := string(buf[:n])
	if !bytes.Contains([]byte(frame), []byte(`"is_connected":true`)) {
		t.Errorf("expected initial snapshot frame to report is_connected:true, got %q", frame)
	}
}

func TestStatusWSSendsSnapshotOnConnect(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.bus.Publish(true)

	mux := http.NewServeMux()
	h := s.RegisterRoutes(mux)
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/print/status/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial status websocket: %v", err)
	}
	defer conn.Close()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket frame: %v", err)
	}

	var body response
	if err := json.Unmarshal(msg, &body); err != nil {
		t.Fatalf("decode websocket frame: %v", err)
	}
	if !body.IsConnected {
		t.Errorf("expected initial snapshot frame to report is_connected:true, got %+v", body)
	}
}
