// Package gateway wraps every outbound call to the remote service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/session"
)

// HeaderRequestID correlates client log lines with remote ones.
const HeaderRequestID = "X-Request-ID"

// TokenSource provides the current bearer token ("" when logged out).
type TokenSource interface {
	AccessToken() string
}

// Gateway injects the bearer credential and normalizes failures into *errs.RequestError.
// It never retries and never refreshes tokens.
type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the underlying client (its transport is wrapped for logging).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// New constructs a Gateway for baseURL.
func New(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		tokens:  tokens,
		log:     log,
	}
	for _, o := range opts {
		o(g)
	}
	next := g.client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	cl := *g.client
	cl.Transport = &LoggingTransport{Next: next, Log: log}
	g.client = &cl
	return g
}

// token prefers an identity threaded through ctx over the store.
func (g *Gateway) token(ctx context.Context) string {
	if id, ok := session.IdentityFromCtx(ctx); ok {
		return id.AccessToken
	}
	if g.tokens == nil {
		return ""
	}
	return g.tokens.AccessToken()
}

// Do sends in (JSON, may be nil) and decodes the envelope's data into out (may be nil).
// It returns the HTTP status when a response was obtained.
func (g *Gateway) Do(ctx context.Context, method, path string, in, out any) (int, error) {
	fail := func(status int, body []byte, msg string, err error) (int, error) {
		return status, &errs.RequestError{Method: method, Path: path, Status: status, Body: body, Message: msg, Err: err}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fail(0, nil, "", fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fail(0, nil, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid, err := uuid.NewV4(); err == nil {
		req.Header.Set(HeaderRequestID, rid.String())
	}
	if tok := g.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fail(0, nil, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, nil, "", fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, raw, envelopeMessage(raw), nil)
	}
	if out == nil {
		return resp.StatusCode, nil
	}

	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fail(resp.StatusCode, raw, "", fmt.Errorf("%w: %v", errs.ErrShape, err))
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fail(resp.StatusCode, raw, "", errs.ErrShape)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fail(resp.StatusCode, raw, "", fmt.Errorf("%w: %v", errs.ErrShape, err))
	}
	return resp.StatusCode, nil
}

func envelopeMessage(raw []byte) string {
	var env model.Envelope
	if json.Unmarshal(raw, &env) != nil || env.Message == nil {
		return ""
	}
	return *env.Message
}
