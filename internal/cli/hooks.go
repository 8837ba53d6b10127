package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/starctl/pkg/observability"
)

// logHooks writes API and cache events to the debug log. It is registered
// with --verbose.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnRequest(context.Context, string, string, string) {}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("api", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("api failed", "method", method, "host", host, "path", path, "err", err)
}

func (h logHooks) OnRetry(_ context.Context, method, path string, attempt int, err error) {
	h.logger.Warn("retrying", "method", method, "path", path, "attempt", attempt, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cached", "key", key, "bytes", size)
}

var (
	_ observability.HTTPHooks  = logHooks{}
	_ observability.CacheHooks = logHooks{}
)
