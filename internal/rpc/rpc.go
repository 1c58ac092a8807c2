// Package rpc serves layout passes as JSON-RPC 2.0 with Content-Length
// framing, the transport editors and language tooling speak over stdio.
//
// Methods:
//
//	layout/compute    LayoutParams -> LayoutResult
//	constraint/solve  LayoutParams -> SolveResult
//	server/version    -> VersionResult
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/matzehuels/seed/pkg/buildinfo"
	"github.com/matzehuels/seed/pkg/errors"
	seedio "github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/pipeline"
)

// Method names.
const (
	MethodLayout  = "layout/compute"
	MethodSolve   = "constraint/solve"
	MethodVersion = "server/version"
)

// Application error codes, in the range JSON-RPC reserves for servers.
const (
	CodeLayoutFailed     int64 = -32000
	CodeUnsatisfiable    int64 = -32001
	CodeUnknownProperty  int64 = -32002
	CodeNotImplemented   int64 = -32003
	CodeDiverged         int64 = -32004
	CodeInvalidDocument  int64 = -32005
	CodeRequestCancelled int64 = -32800
)

// LayoutParams are the parameters of layout/compute and constraint/solve.
type LayoutParams struct {
	Document json.RawMessage  `json:"document"`
	Format   string           `json:"format,omitempty"`
	Options  pipeline.Options `json:"options"`
}

// LayoutResult is the result of layout/compute.
type LayoutResult struct {
	DocHash string          `json:"doc_hash"`
	Tree    json.RawMessage `json:"tree"`
	Stats   pipeline.Stats  `json:"stats"`
	Cached  bool            `json:"cached"`
}

// SolveResult is the result of constraint/solve.
type SolveResult struct {
	Solution json.RawMessage `json:"solution"`
	Stats    pipeline.Stats  `json:"stats"`
}

// VersionResult is the result of server/version.
type VersionResult struct {
	Name    string `json:"name"`
	Session string `json:"session"`
	buildinfo.Info
}

// Handler answers layout requests on a connection.
type Handler struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults fill options a request leaves unset.
	Defaults pipeline.Options

	// Session identifies this server instance in logs and server/version.
	Session string
}

// NewHandler creates a handler with a fresh session id.
func NewHandler(runner *pipeline.Runner, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		Runner:  runner,
		Logger:  logger,
		Session: uuid.NewString(),
	}
}

// Serve answers requests on rwc until the peer disconnects or ctx is
// cancelled.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, h *Handler) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(h.handle))
	h.Logger.Info("rpc session started", "session", h.Session)

	select {
	case <-ctx.Done():
		conn.Close()
	case <-conn.DisconnectNotify():
	}
	h.Logger.Info("rpc session ended", "session", h.Session)
	return nil
}

func (h *Handler) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	h.Logger.Debug("rpc request", "session", h.Session, "method", req.Method)
	switch req.Method {
	case MethodVersion:
		return VersionResult{Name: "seed", Session: h.Session, Info: buildinfo.Get()}, nil
	case MethodLayout:
		params, err := h.params(req)
		if err != nil {
			return nil, err
		}
		return h.layout(ctx, params)
	case MethodSolve:
		params, err := h.params(req)
		if err != nil {
			return nil, err
		}
		return h.solve(ctx, params)
	}
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found: " + req.Method}
}

func (h *Handler) params(req *jsonrpc2.Request) (LayoutParams, error) {
	var p LayoutParams
	if req.Params == nil || string(*req.Params) == "null" {
		return p, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, &p); err != nil {
		return p, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	p.Options = p.Options.Overlay(h.Defaults)
	return p, nil
}

func (h *Handler) layout(ctx context.Context, p LayoutParams) (*LayoutResult, error) {
	doc, err := pipeline.ParseEmbedded(p.Document, p.Format)
	if err != nil {
		return nil, toRPCError(err)
	}
	res, err := h.Runner.Layout(ctx, doc, p.Options)
	if err != nil {
		return nil, toRPCError(err)
	}
	var buf bytes.Buffer
	if err := seedio.WriteTree(res.Tree, &buf); err != nil {
		return nil, toRPCError(err)
	}
	return &LayoutResult{
		DocHash: res.DocHash,
		Tree:    buf.Bytes(),
		Stats:   res.Stats,
		Cached:  res.CacheInfo.LayoutHit,
	}, nil
}

func (h *Handler) solve(ctx context.Context, p LayoutParams) (*SolveResult, error) {
	doc, err := pipeline.ParseEmbedded(p.Document, p.Format)
	if err != nil {
		return nil, toRPCError(err)
	}
	res, err := h.Runner.Solve(ctx, doc, p.Options)
	if err != nil {
		return nil, toRPCError(err)
	}
	var buf bytes.Buffer
	if err := seedio.WriteSolution(res.Solution, &buf); err != nil {
		return nil, toRPCError(err)
	}
	return &SolveResult{Solution: buf.Bytes(), Stats: res.Stats}, nil
}

// errorData travels in the data member of an error response.
type errorData struct {
	Code errors.Code `json:"code"`
}

// toRPCError maps an error code to a JSON-RPC error.
func toRPCError(err error) *jsonrpc2.Error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return &jsonrpc2.Error{Code: CodeRequestCancelled, Message: err.Error()}
	}
	code := errors.GetCode(err)
	rpcErr := &jsonrpc2.Error{Message: errors.UserMessage(err)}
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidExpression:
		rpcErr.Code = jsonrpc2.CodeInvalidParams
	case errors.ErrCodeInvalidDocument:
		rpcErr.Code = CodeInvalidDocument
	case errors.ErrCodeUnsatisfiable:
		rpcErr.Code = CodeUnsatisfiable
	case errors.ErrCodeUnknownProperty:
		rpcErr.Code = CodeUnknownProperty
	case errors.ErrCodeNotImplemented:
		rpcErr.Code = CodeNotImplemented
	case errors.ErrCodeDiverged:
		rpcErr.Code = CodeDiverged
	default:
		rpcErr.Code = CodeLayoutFailed
	}
	if code != "" {
		rpcErr.SetError(errorData{Code: code})
	}
	return rpcErr
}

// Stdio joins a reader and a writer, typically os.Stdin and os.Stdout,
// into the stream [Serve] expects.
func Stdio(r io.Reader, w io.Writer) io.ReadWriteCloser {
	return &stdioReadWriteCloser{reader: r, writer: w}
}

type stdioReadWriteCloser struct {
	reader io.Reader
	writer io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	var rerr, werr error
	if c, ok := s.reader.(io.Closer); ok {
		rerr = c.Close()
	}
	if c, ok := s.writer.(io.Closer); ok {
		werr = c.Close()
	}
	if rerr != nil {
		return rerr
	}
	return werr
}
