package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanduta-art/api/internal/platform/requestctx"
)

func TestTraceMiddlewarePropagatesRemoteContext(t *testing.T) {
	var got requestctx.TraceInfo
	var ok bool
	handler := TraceMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !ok {
		t.Fatal("expected trace info on the request context")
	}
	if got.TraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("unexpected trace id %q", got.TraceID)
	}
	if got.SpanID == "" {
		t.Fatal("expected a span id")
	}
	if !got.Sampled {
		t.Fatal("expected the sampled flag to carry over")
	}
	if rec.Header().Get("traceparent") == "" {
		t.Fatal("expected the trace context echoed on the response")
	}
}

func TestTraceMiddlewareIgnoresMalformedHeader(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"00-zzzz-00f067aa0ba902b7-01",
		"00-00000000000000000000000000000000-0000000000000000-01",
	}
	for _, header := range cases {
		handler := TraceMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requestctx.Trace(r.Context()); ok {
				t.Errorf("header %q: expected no trace info", header)
			}
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("traceparent", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
