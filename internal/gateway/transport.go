package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoggingTransport logs request metadata only, never payloads or credentials.
type LoggingTransport struct {
	Next http.RoundTripper
	Log  *zap.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Next.RoundTrip(req)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get(HeaderRequestID)),
		zap.Bool("auth", req.Header.Get("Authorization") != ""),
		zap.Duration("dur", time.Since(start)),
	}
	if err != nil {
		t.Log.Warn("http transport failure", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.Log.Debug("http", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}
