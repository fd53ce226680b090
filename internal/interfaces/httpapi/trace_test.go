package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHandlerSpan(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "httpapi.Handler.GetStandings", want: true},
		{in: "httpapi.Handler.DispatchAction", want: true},
		{in: "httpapi.RequireInternalToken", want: false},
		{in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		if got := isHandlerSpan(tt.in); got != tt.want {
			t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestShouldTraceRequest(t *testing.T) {
	skipped := []string{"/healthz", "/metrics", " /HEALTHZ ", "/readyz"}
	for _, path := range skipped {
		if shouldTraceRequest(path) {
			t.Fatalf("expected %q to be excluded from tracing", path)
		}
	}

	traced := []string{"/v1/standings", "/v1/sessions/abc/actions", "/v1/internal/raw-payloads", "/"}
	for _, path := range traced {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected %q to be traced", path)
		}
	}
}

func TestStartSpanWithoutParentIsNoop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/view", nil)
	ctx, span := startSpan(req.Context(), "httpapi.Handler.GetView")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected no span without a parent")
	}
	if ctx != req.Context() {
		t.Fatalf("expected context to be returned unchanged")
	}
}
