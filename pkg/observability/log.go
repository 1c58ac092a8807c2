package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to Logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Register installs h as the pipeline, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnSolveStart(_ context.Context, elements int) {
	h.Logger.Debug("solve start", "elements", elements)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, elements, constraints int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("solve failed", "elements", elements, "err", err)
		return
	}
	h.Logger.Debug("solved", "elements", elements, "constraints", constraints, "duration", d)
}

func (h *LogHooks) OnComposeStart(_ context.Context, elements int) {
	h.Logger.Debug("compose start", "elements", elements)
}

func (h *LogHooks) OnComposeComplete(_ context.Context, nodes int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("compose failed", "err", err)
		return
	}
	h.Logger.Debug("composed", "nodes", nodes, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
