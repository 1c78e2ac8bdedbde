package observability

import (
	"context"
	"testing"
	"time"
)

type recordingHooks struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
	modes []string
}

func (r *recordingHooks) OnRenderStart(_ context.Context, mode string) {
	r.modes = append(r.modes, mode)
}

func TestNoopHooks(t *testing.T) {
	ctx := context.Background()
	Reset()

	Pipeline().OnLoadStart(ctx, "api.json")
	Pipeline().OnLoadComplete(ctx, "api.json", 120, time.Millisecond, nil)
	Pipeline().OnFold(ctx, 4, time.Millisecond)
	Pipeline().OnRenderStart(ctx, "interactive")
	Pipeline().OnRenderComplete(ctx, "interactive", 40, time.Millisecond)
	Cache().OnCacheHit(ctx, "interactive")
	Cache().OnCacheMiss(ctx, "text")
	Cache().OnCacheBypass(ctx, "readonly")
	Cache().OnCacheSet(ctx, "artifact", 1024)
	HTTP().OnRequest(ctx, "GET", "/documents/{id}")
	HTTP().OnResponse(ctx, "GET", "/documents/{id}", 200, time.Millisecond)
}

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)
	h := &recordingHooks{}

	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	SetPipelineHooks(nil)

	Pipeline().OnRenderStart(context.Background(), "text")
	if len(h.modes) != 1 || h.modes[0] != "text" {
		t.Fatalf("recorded modes = %v, want [text]", h.modes)
	}
	if Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("registered hooks not returned")
	}

	Reset()
	tests := []struct {
		name string
		ok   bool
	}{
		{"pipeline", Pipeline() == PipelineHooks(NoopPipelineHooks{})},
		{"cache", Cache() == CacheHooks(NoopCacheHooks{})},
		{"http", HTTP() == HTTPHooks(NoopHTTPHooks{})},
	}
	for _, tt := range tests {
		if !tt.ok {
			t.Errorf("%s hooks not reset to no-op", tt.name)
		}
	}
}
