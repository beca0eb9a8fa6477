package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, 20)
	p.OnBuildComplete(ctx, 18, 7, time.Second, nil)
	p.OnLayoutStart(ctx, "size", 18)
	p.OnLayoutComplete(ctx, "size", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Tree hooks
	tr := NoopTreeHooks{}
	tr.OnRotation(ctx, "left-right", 30, 25)
	tr.OnDuplicate(ctx, 25)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/trees")
	h.OnResponse(ctx, "POST", "/trees", 201, time.Second)
	h.OnError(ctx, "POST", "/trees", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() should return NoopTreeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should keep the default")
	}
}

func TestSettingOneCategoryKeepsOthers(t *testing.T) {
	Reset()
	defer Reset()

	p := &testPipelineHooks{}
	tr := &testTreeHooks{}
	SetPipelineHooks(p)
	SetTreeHooks(tr)

	if Pipeline() != p || Tree() != tr {
		t.Fatal("SetTreeHooks replaced the pipeline hooks")
	}
	Tree().OnRotation(context.Background(), "right-right", 10, 20)
	Tree().OnDuplicate(context.Background(), 20)
	if tr.rotations != 1 || tr.duplicates != 1 {
		t.Errorf("rotations = %d, duplicates = %d; want 1, 1", tr.rotations, tr.duplicates)
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testPipelineHooks{}
	SetPipelineHooks(h)

	Pipeline().OnBuildStart(context.Background(), 5)
	Pipeline().OnBuildStart(context.Background(), 3)
	if h.builds != 2 || h.keys != 8 {
		t.Errorf("builds = %d, keys = %d; want 2, 8", h.builds, h.keys)
	}
}

// Test implementations
type testPipelineHooks struct {
	NoopPipelineHooks
	builds, keys int
}

func (h *testPipelineHooks) OnBuildStart(_ context.Context, keyCount int) {
	h.builds++
	h.keys += keyCount
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

type testTreeHooks struct {
	rotations, duplicates int
}

func (h *testTreeHooks) OnRotation(context.Context, string, int, int) { h.rotations++ }
func (h *testTreeHooks) OnDuplicate(context.Context, int)             { h.duplicates++ }
