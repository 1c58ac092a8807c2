package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/observability"
	"github.com/matzehuels/seed/pkg/pipeline"
)

const cardDoc = `{
  "elements": [
    {
      "type": "frame",
      "name": "Card",
      "properties": {"width": "320px", "height": "200px", "layout": "vertical", "gap": "8px", "padding": "16px"},
      "children": [
        {"type": "frame", "name": "Header", "properties": {"height": "40px"}},
        {"type": "frame", "name": "Body", "properties": {"height": "100px"}}
      ]
    }
  ]
}`

func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	logger := log.New(&logs)
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, logger), &logs
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v, want status ok and a version", body)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response should carry a request id")
	}
}

func TestLayout(t *testing.T) {
	s, logs := newTestServer(t)
	body := `{"document": ` + cardDoc + `, "options": {"viewport_width": 1024}}`

	rec := post(t, s, "/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("first layout should not be cached")
	}
	if resp.Stats.Elements != 3 || resp.Stats.Nodes != 3 {
		t.Errorf("Stats = %+v, want 3 elements and 3 nodes", resp.Stats)
	}
	var tree struct {
		Roots []int `json:"roots"`
		Nodes []struct {
			Name   string `json:"name"`
			Bounds struct {
				Y float64 `json:"y"`
			} `json:"bounds"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(resp.Tree, &tree); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if len(tree.Roots) != 1 || len(tree.Nodes) != 3 {
		t.Fatalf("tree = %+v", tree)
	}
	if tree.Nodes[1].Name != "Header" || tree.Nodes[1].Bounds.Y != 16 {
		t.Errorf("Header = %+v, want y 16", tree.Nodes[1])
	}

	rec = post(t, s, "/v1/layout", body)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Cached {
		t.Error("second layout should be cached")
	}
	if !strings.Contains(logs.String(), "path=/v1/layout") || !strings.Contains(logs.String(), "status=200") {
		t.Errorf("request log missing: %s", logs)
	}
}

func TestLayoutTOML(t *testing.T) {
	s, _ := newTestServer(t)
	toml := "[[elements]]\ntype = \"frame\"\nname = \"Box\"\n[elements.properties]\nwidth = \"100px\"\nheight = \"50px\"\n"
	doc, _ := json.Marshal(toml)
	rec := post(t, s, "/v1/layout", `{"format": "toml", "document": `+string(doc)+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestSolve(t *testing.T) {
	s, _ := newTestServer(t)
	rec := post(t, s, "/v1/solve", `{"document": `+cardDoc+`, "options": {"suggest": [{"element": "Card", "property": "x", "value": 10}]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	var entries []struct {
		Name     string  `json:"name"`
		Property string  `json:"property"`
		Value    float64 `json:"value"`
	}
	if err := json.Unmarshal(resp.Solution, &entries); err != nil {
		t.Fatalf("decode solution: %v", err)
	}
	var found bool
	for _, e := range entries {
		if e.Name == "Card" && e.Property == "x" {
			found = true
			if e.Value != 10 {
				t.Errorf("Card.x = %v, want 10", e.Value)
			}
		}
	}
	if !found {
		t.Errorf("solution has no Card.x: %s", resp.Solution)
	}
}

func TestGraph(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"document": ` + cardDoc + `, "options": {"detailed": true}}`

	rec := post(t, s, "/v1/graph", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "digraph") {
		t.Errorf("body = %q, want DOT", rec.Body.String())
	}
	if got := rec.Header().Get("X-Seed-Cache"); got != "miss" {
		t.Errorf("X-Seed-Cache = %q, want miss", got)
	}
	rec = post(t, s, "/v1/graph", body)
	if got := rec.Header().Get("X-Seed-Cache"); got != "hit" {
		t.Errorf("X-Seed-Cache = %q, want hit", got)
	}
}

func TestErrors(t *testing.T) {
	unsat := `{"document": {"elements": [{"type": "frame", "name": "Box", "constraints": [
		{"kind": "equality", "property": "width", "value": "100px"},
		{"kind": "equality", "property": "width", "value": "200px"}
	]}]}}`

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{"document": `, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing document", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", `{"format": "yaml", "document": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"toml not string", `{"format": "toml", "document": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"invalid document", `{"document": {"elements": [{"type": "blob"}]}}`, http.StatusBadRequest, errors.ErrCodeInvalidDocument},
		{"negative viewport", `{"document": ` + cardDoc + `, "options": {"viewport_width": -5}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown property", `{"document": {"elements": [{"type": "frame", "name": "A", "constraints": ["width == Ghost.width"]}]}}`, http.StatusBadRequest, errors.ErrCodeUnknownProperty},
		{"unsatisfiable", unsat, http.StatusUnprocessableEntity, errors.ErrCodeUnsatisfiable},
	}

	s, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, "/v1/layout", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			detail := decodeError(t, rec)
			if detail.Code != tt.code {
				t.Errorf("code = %q, want %q", detail.Code, tt.code)
			}
			if detail.RequestID == "" {
				t.Error("error should carry the request id")
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	s.MaxBodyBytes = 64
	rec := post(t, s, "/v1/layout", `{"document": `+cardDoc+`}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", RequestIDHeader, got)
	}
}

func TestDefaults(t *testing.T) {
	s, _ := newTestServer(t)
	s.Defaults = pipeline.Options{ViewportWidth: 500, ViewportHeight: 300}
	doc := `{"document": {"elements": [{"type": "frame", "name": "Root"}]}}`

	rec := post(t, s, "/v1/layout", doc)
	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(resp.Tree, []byte(`"width":500`)) {
		t.Errorf("root should take the default viewport width: %s", resp.Tree)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t)
	post(t, s, "/v1/layout", `{}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if len(hooks.statuses) != 2 || hooks.statuses[0] != 400 || hooks.statuses[1] != 200 {
		t.Errorf("statuses = %v, want [400 200]", hooks.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe() did not return after cancel")
	}
}

