package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nazedev/botpanel/internal/observability"
	"github.com/nazedev/botpanel/internal/panel"
	"github.com/nazedev/botpanel/internal/session"
	"github.com/nazedev/botpanel/internal/testutil/testlog"
	"github.com/rs/zerolog/log"
)

func newTestGateway(t *testing.T, backendURL string) *Gateway {
	t.Helper()
	testlog.Start(t)
	upstream, err := NewUpstream(backendURL, 2*time.Second)
	if err != nil {
		t.Fatalf("new upstream: %v", err)
	}
	g := Appear("gateway-test", ":0", nil, upstream)
	g.RegisterRoutes()
	return g
}

// newPanelBackend runs a real panel behind httptest.
func newPanelBackend(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()
	store := session.New(session.Options{
		Profile:      session.DefaultProfile(),
		PairingDelay: 20 * time.Millisecond,
	})
	t.Cleanup(store.Close)
	p := panel.Appear("panel-upstream", ":0", nil, store)
	p.RegisterRoutes()
	srv := httptest.NewServer(p.HTTPRouter())
	t.Cleanup(srv.Close)
	return srv, store
}

func serve(t *testing.T, g *Gateway, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	g.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body=%q: %v", rr.Body.String(), err)
	}
	return out
}

func TestStatusIsEnrichedThroughGateway(t *testing.T) {
	backend, _ := newPanelBackend(t)
	g := newTestGateway(t, backend.URL)

	rr := serve(t, g, http.MethodGet, "/api/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["frontend"] != "Gateway" || body["backend"] != "Panel" || body["integrated"] != true {
		t.Fatalf("missing gateway markers: %#v", body)
	}
	if body["connection_status"] != "initializing" {
		t.Fatalf("unexpected upstream state: %#v", body)
	}
	log.Info().Int("status", rr.Code).Msg("gateway/http: GET /api/status")
}

func TestPairAndClearThroughGateway(t *testing.T) {
	backend, store := newPanelBackend(t)
	g := newTestGateway(t, backend.URL)

	rr := serve(t, g, http.MethodPost, "/api/pair", `{"phoneNumber":"+62 812 3456 7890"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if body := decode(t, rr); body["phone"] != "6281234567890" {
		t.Fatalf("unexpected pair body: %#v", body)
	}
	if store.ConnectionStatus() != session.StatusPairing {
		t.Fatalf("backend not pairing: %s", store.ConnectionStatus())
	}

	rr = serve(t, g, http.MethodPost, "/api/clear-session", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if store.ConnectionStatus() != session.StatusInitializing {
		t.Fatalf("backend not cleared: %s", store.ConnectionStatus())
	}
}

func TestValidationErrorsRelayedVerbatim(t *testing.T) {
	backend, _ := newPanelBackend(t)
	g := newTestGateway(t, backend.URL)

	rr := serve(t, g, http.MethodPost, "/api/pair", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected relayed 400, got %d", rr.Code)
	}
	if body := decode(t, rr); body["error"] != "Phone number is required" {
		t.Fatalf("unexpected relayed body: %#v", body)
	}

	rr = serve(t, g, http.MethodPost, "/api/update-owner", `{"owners":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected relayed 400, got %d", rr.Code)
	}
	if body := decode(t, rr); body["error"] != "Owners must be an array" {
		t.Fatalf("unexpected relayed body: %#v", body)
	}
}

func TestUpstreamStatusAndBodyRelayed(t *testing.T) {
	var gotRequestID, gotQuery string
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(observability.RequestIDHeader)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"busy","detail":1}`)
	}))
	t.Cleanup(stub.Close)
	g := newTestGateway(t, stub.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/settings?verbose=1", nil)
	req.Header.Set(observability.RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	g.HTTPRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected relayed 503, got %d", rr.Code)
	}
	if rr.Body.String() != `{"error":"busy","detail":1}` {
		t.Fatalf("body not relayed verbatim: %s", rr.Body.String())
	}
	if gotRequestID != "req-123" {
		t.Fatalf("request id not forwarded: %q", gotRequestID)
	}
	if gotQuery != "verbose=1" {
		t.Fatalf("query not forwarded: %q", gotQuery)
	}
}

func TestErrorStatusNotEnriched(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	}))
	t.Cleanup(stub.Close)
	g := newTestGateway(t, stub.URL)

	rr := serve(t, g, http.MethodGet, "/api/status", "")
	body := decode(t, rr)
	if rr.Code != http.StatusInternalServerError || body["error"] != "boom" {
		t.Fatalf("unexpected relay: %d %#v", rr.Code, body)
	}
	if _, ok := body["frontend"]; ok {
		t.Fatalf("error body should not be enriched: %#v", body)
	}
}

func TestUnreachableBackendEnvelopes(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	g := newTestGateway(t, deadURL)

	cases := []struct {
		method string
		path   string
		body   string
		want   string
	}{
		{http.MethodGet, "/api/status", "", "Cannot connect to backend"},
		{http.MethodPost, "/api/pair", `{"phoneNumber":"628123"}`, "Backend connection failed"},
		{http.MethodPost, "/api/clear-session", "", "Backend connection failed"},
		{http.MethodGet, "/api/settings", "", "Cannot fetch settings"},
		{http.MethodPost, "/api/update-owner", `{"owners":["628111"]}`, "Failed to update owner"},
	}
	for _, tc := range cases {
		rr := serve(t, g, tc.method, tc.path, tc.body)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.path, rr.Code)
		}
		body := decode(t, rr)
		if body["error"] != tc.want {
			t.Fatalf("%s %s: expected %q, got %#v", tc.method, tc.path, tc.want, body)
		}
		if msg, _ := body["message"].(string); msg == "" {
			t.Fatalf("%s %s: missing message: %#v", tc.method, tc.path, body)
		}
		if tc.path == "/api/status" {
			if body["frontend"] != "Gateway" || body["backend_url"] != deadURL {
				t.Fatalf("status envelope missing markers: %#v", body)
			}
		}
	}
}

func TestForwardWrapsTransportFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	up, err := NewUpstream(deadURL, time.Second)
	if err != nil {
		t.Fatalf("new upstream: %v", err)
	}
	_, err = up.Forward(testContext(t), http.MethodGet, "/api/status", "", nil, "", "")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	var uerr *UpstreamError
	if !errors.As(err, &uerr) || uerr.Path != "/api/status" {
		t.Fatalf("expected *UpstreamError for path, got %#v", err)
	}
}

func TestOversizedRequestBodyRejected(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()
	g := newTestGateway(t, backend.URL)

	body := `{"owners":["` + strings.Repeat("6", maxBodyBytes) + `"]}`
	rr := serve(t, g, http.MethodPost, "/api/update-owner", body)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode(t, rr)["error"]; got != "Request body too large" {
		t.Fatalf("unexpected error %#v", got)
	}
	if hits.Load() != 0 {
		t.Fatalf("oversized body reached the backend")
	}
}

func TestOversizedUpstreamResponseFails(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"pad":"`+strings.Repeat("x", maxBodyBytes)+`"}`)
	}))
	defer backend.Close()

	up, err := NewUpstream(backend.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new upstream: %v", err)
	}
	_, err = up.Forward(testContext(t), http.MethodGet, "/api/settings", "", nil, "", "")
	if !errors.Is(err, ErrUpstreamUnavailable) || !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected oversized upstream error, got %v", err)
	}

	g := newTestGateway(t, backend.URL)
	rr := serve(t, g, http.MethodGet, "/api/settings", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := decode(t, rr)["error"]; got != "Cannot fetch settings" {
		t.Fatalf("unexpected error %#v", got)
	}
}

func TestBodyAtLimitForwarded(t *testing.T) {
	var got atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got.Store(int64(len(data)))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer backend.Close()
	g := newTestGateway(t, backend.URL)

	body := strings.Repeat(" ", maxBodyBytes-2) + "{}"
	rr := serve(t, g, http.MethodPost, "/api/pair", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got.Load() != maxBodyBytes {
		t.Fatalf("backend saw %d bytes, want %d", got.Load(), maxBodyBytes)
	}
}

func TestAdminRoutesNotProxied(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()
	g := newTestGateway(t, backend.URL)

	for _, path := range []string{"/api/premium-users", "/api/add-premium", "/api/bots", "/api/add-bot"} {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			rr := serve(t, g, method, path, "")
			if rr.Code != http.StatusNotFound {
				t.Fatalf("%s %s: expected 404, got %d", method, path, rr.Code)
			}
			if got := decode(t, rr)["error"]; got != "Route not found" {
				t.Fatalf("%s %s: unexpected error %#v", method, path, got)
			}
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("admin route reached the backend")
	}
}

func TestLocalRoutes(t *testing.T) {
	g := newTestGateway(t, "http://127.0.0.1:1")

	rr := serve(t, g, http.MethodGet, "/health", "")
	body := decode(t, rr)
	if rr.Code != http.StatusOK || body["status"] != "healthy" || body["service"] != "Dashboard Gateway" {
		t.Fatalf("unexpected health: %d %#v", rr.Code, body)
	}
	if body["backend_url"] != "http://127.0.0.1:1" {
		t.Fatalf("health missing backend_url: %#v", body)
	}

	rr = serve(t, g, http.MethodGet, "/api/gateway-status", "")
	body = decode(t, rr)
	if body["gateway"] != "operational" || body["frontend"] != "Gateway" {
		t.Fatalf("unexpected gateway status: %#v", body)
	}

	rr = serve(t, g, http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound || decode(t, rr)["error"] != "Route not found" {
		t.Fatalf("unexpected 404: %d %s", rr.Code, rr.Body.String())
	}
}

func TestDashboardAssetsServed(t *testing.T) {
	g := newTestGateway(t, "http://127.0.0.1:1")

	for _, path := range []string{"/", "/dashboard"} {
		rr := serve(t, g, http.MethodGet, path, "")
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "/static/script.js") {
			t.Fatalf("%s: unexpected page %d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: unexpected content type %q", path, ct)
		}
	}

	for _, path := range []string{"/static/script.js", "/static/style.css"} {
		rr := serve(t, g, http.MethodGet, path, "")
		if rr.Code != http.StatusOK || rr.Body.Len() == 0 {
			t.Fatalf("%s: expected asset, got %d", path, rr.Code)
		}
	}
}

func TestNormalizeBackendURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8000", "http://localhost:8000", false},
		{"http://localhost:8000/", "http://localhost:8000", false},
		{"panel.internal:8000", "http://panel.internal:8000", false},
		{":8000", "http://localhost:8000", false},
		{"https://panel.example.com", "https://panel.example.com", false},
		{"", "", true},
		{"http://", "", true},
	}
	for _, tc := range cases {
		got, err := normalizeBackendURL(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidBackendURL) {
				t.Fatalf("%q: expected ErrInvalidBackendURL, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

// testContext mirrors testing.T.Context (Go 1.24+): canceled when the test's cleanup runs.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
