package gateway

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func TestLoggingTransport_LogsMetadataOnly(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	tr := &LoggingTransport{
		Next: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 201, Body: io.NopCloser(stringsReader("{}"))}, nil
		}),
		Log: zap.New(core),
	}

	req, _ := http.NewRequest(http.MethodPost, "http://remote/api/auth/login", stringsReader(`{"password":"secret"}`))
	req.Header.Set("Authorization", "Bearer T")
	resp, err := tr.RoundTrip(req)
	if err != nil || resp.StatusCode != 201 {
		t.Fatalf("unexpected: %v %v", resp, err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["path"] != "/api/auth/login" || ctx["status"] != int64(201) || ctx["auth"] != true {
		t.Fatalf("fields mismatch: %v", ctx)
	}
	for _, v := range ctx {
		if s, ok := v.(string); ok && (strings.Contains(s, "secret") || strings.Contains(s, "Bearer")) {
			t.Fatalf("payload or credential leaked into logs: %v", ctx)
		}
	}
}

func TestLoggingTransport_Failure(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	want := errors.New("refused")
	tr := &LoggingTransport{
		Next: roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, want }),
		Log:  zap.New(core),
	}
	req, _ := http.NewRequest(http.MethodGet, "http://remote/x", nil)
	if _, err := tr.RoundTrip(req); !errors.Is(err, want) {
		t.Fatalf("want original error, got %v", err)
	}
	if logs.FilterMessage("http transport failure").Len() != 1 {
		t.Fatalf("failure not logged")
	}
}
