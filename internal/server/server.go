// Package server exposes layout passes over HTTP.
//
// Every route takes the same request body:
//
//	{"document": {...}, "format": "json", "options": {"viewport_width": 1024}}
//
// A TOML document is sent as a string with "format": "toml". Errors are
// returned as {"error": {"code": "UNSATISFIABLE", "message": "..."}} with a
// status derived from the error code.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seed/pkg/buildinfo"
	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/pipeline"
	"github.com/matzehuels/seed/pkg/render/dot"
)

const (
	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 4 << 20

	shutdownTimeout = 10 * time.Second
)

// Server serves the layout API backed by a pipeline runner.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults fill options a request leaves unset.
	Defaults pipeline.Options

	MaxBodyBytes int64

	router chi.Router
}

// New creates a server. A nil logger means log.Default.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		Runner:       runner,
		Logger:       logger,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/solve", s.handleSolve)
		r.Post("/graph", s.handleGraph)
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Requests & Responses
// =============================================================================

// Request is the body of every /v1 route.
type Request struct {
	Document json.RawMessage  `json:"document"`
	Format   string           `json:"format,omitempty"`
	Options  pipeline.Options `json:"options"`
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	DocHash string          `json:"doc_hash"`
	Tree    json.RawMessage `json:"tree"`
	Stats   pipeline.Stats  `json:"stats"`
	Cached  bool            `json:"cached"`
}

// SolveResponse is returned by POST /v1/solve.
type SolveResponse struct {
	Solution json.RawMessage `json:"solution"`
	Stats    pipeline.Stats  `json:"stats"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// decode reads the request body and parses its document.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*ast.Document, pipeline.Options, error) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, req.Options, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.MaxBodyBytes)
		}
		return nil, req.Options, errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err)
	}
	doc, err := pipeline.ParseEmbedded(req.Document, req.Format)
	if err != nil {
		return nil, req.Options, err
	}
	return doc, req.Options.Overlay(s.Defaults), nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Runner.Layout(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := io.WriteTree(res.Tree, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		DocHash: res.DocHash,
		Tree:    buf.Bytes(),
		Stats:   res.Stats,
		Cached:  res.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Runner.Solve(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := io.WriteSolution(res.Solution, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SolveResponse{
		Solution: buf.Bytes(),
		Stats:    res.Stats,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, cached, err := s.Runner.Graph(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	contentType := "text/vnd.graphviz; charset=utf-8"
	if opts.GraphFormat == dot.FormatSVG {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Seed-Cache", cacheStatus(cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Helpers
// =============================================================================

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidExpression,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeUnknownProperty,
		errors.ErrCodeNotImplemented:
		return http.StatusBadRequest
	case errors.ErrCodeUnsatisfiable:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "request_id", RequestIDFrom(r.Context()), "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
