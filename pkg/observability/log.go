package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements PipelineHooks, CacheHooks and HTTPHooks by writing debug lines
// to a logger. The CLI registers it in verbose mode.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnCycleStart(_ context.Context, kind string) {
	h.Logger.Debug("cycle start", "kind", kind)
}

func (h LogHooks) OnPhase(_ context.Context, kind, phase string) {
	h.Logger.Debug("phase", "kind", kind, "phase", phase)
}

func (h LogHooks) OnCycleComplete(_ context.Context, kind string, rows int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("cycle aborted", "kind", kind, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("cycle complete", "kind", kind, "rows", rows, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", statusCode, "duration", d)
}

func (h LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)
