// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about tree builds, layout passes, rendering, cache
// operations, rotations inside the tree, and served HTTP requests.
//
// # Architecture
//
// Each event category has an interface and a no-op implementation. The
// registry holds one immutable set of hooks; Set* functions swap in a copy,
// so emitting an event never takes a lock.
//
// Hooks are registered by main, never by libraries, so the packages that
// emit events stay free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTreeHooks(&rotationCounter{})
//	    observability.SetHTTPHooks(&requestLog{})
//	    // ... run application
//	}
//
// The pipeline emits tree events from the insertion loop:
//
//	avl.WithRotationHook(func(r avl.Rotation[int]) {
//	    observability.Tree().OnRotation(ctx, r.Case.String(), r.Pivot, r.NewRoot)
//	})
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks receives stage events from the pipeline.
type PipelineHooks interface {
	OnBuildStart(ctx context.Context, keyCount int)
	OnBuildComplete(ctx context.Context, size, rotations int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, strategy string, nodeCount int)
	OnLayoutComplete(ctx context.Context, strategy string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// TreeHooks receives structural events while a key sequence is inserted.
// rotation is the case name ("left-left", "right-left", ...); pivot is the
// key of the unbalanced node and newRoot the key that replaced it.
type TreeHooks interface {
	OnRotation(ctx context.Context, rotation string, pivot, newRoot int)
	OnDuplicate(ctx context.Context, key int)
}

// CacheHooks receives cache lookups and writes. kind is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from the HTTP server. path is the request path,
// not the route pattern.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, path string, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopTreeHooks ignores every tree event.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnRotation(context.Context, string, int, int) {}
func (NoopTreeHooks) OnDuplicate(context.Context, int)             {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type hookSet struct {
	pipeline PipelineHooks
	tree     TreeHooks
	cache    CacheHooks
	http     HTTPHooks
}

var noopSet = hookSet{
	pipeline: NoopPipelineHooks{},
	tree:     NoopTreeHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

var (
	current atomic.Pointer[hookSet]
	writeMu sync.Mutex // serializes copy-on-write updates
)

func init() { Reset() }

func load() *hookSet { return current.Load() }

// update copies the current set, applies fn and publishes the copy.
func update(fn func(*hookSet)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetTreeHooks registers tree hooks. A nil h is ignored.
func SetTreeHooks(h TreeHooks) {
	if h != nil {
		update(func(s *hookSet) { s.tree = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return load().pipeline }

// Tree returns the registered tree hooks.
func Tree() TreeHooks { return load().tree }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return load().http }

// Reset restores the no-op hooks. Tests call it before and after
// registering their own.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	s := noopSet
	current.Store(&s)
}
