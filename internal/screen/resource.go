// Package screen keeps each view's copy of remote state in step with the
// remote service across loads and mutations.
package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/i18n"
)

// Status is the lifecycle of a screen's primary resource.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Messages are the per-screen texts of a failed fetch.
type Messages struct {
	Shape i18n.Key
	Error i18n.Key
}

// FailureMessage converts err into the single message a screen shows.
func FailureMessage(cat *i18n.Catalog, m Messages, err error) string {
	switch errs.KindOf(err) {
	case errs.KindShape:
		return cat.T(m.Shape)
	case errs.KindUnauthorized:
		return cat.T(i18n.AuthUnauthorized)
	default:
		return cat.T(m.Error)
	}
}

// Snapshot is a copy of a resource's state.
type Snapshot[T any] struct {
	Status  Status
	Data    T
	Message string
	Err     error
}

// Ready reports whether data may be rendered with its affordances.
func (s Snapshot[T]) Ready() bool { return s.Status == Ready }

// Resource holds one fetched value. Overlapping loads are not cancelled;
// the one that completes last is the one kept.
type Resource[T any] struct {
	name  string
	fetch func(ctx context.Context) (T, error)
	cat   *i18n.Catalog
	msgs  Messages
	log   *zap.Logger

	mu    sync.Mutex
	state Snapshot[T]
}

// NewResource constructs an Idle resource.
func NewResource[T any](name string, fetch func(ctx context.Context) (T, error), cat *i18n.Catalog, msgs Messages, log *zap.Logger) *Resource[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resource[T]{name: name, fetch: fetch, cat: cat, msgs: msgs, log: log}
}

// Load fetches once. Success installs the data; failure discards it and
// records the localized message. The error is returned for callers that care.
func (r *Resource[T]) Load(ctx context.Context) error {
	r.mu.Lock()
	r.state.Status = Loading
	r.state.Message = ""
	r.state.Err = nil
	r.mu.Unlock()

	v, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		var zero T
		r.state = Snapshot[T]{Status: Failed, Data: zero, Message: FailureMessage(r.cat, r.msgs, err), Err: err}
		r.log.Warn("load failed",
			zap.String("resource", r.name),
			zap.String("kind", errs.KindOf(err).String()),
			zap.Error(err),
		)
		return err
	}
	r.state = Snapshot[T]{Status: Ready, Data: v}
	return nil
}

// Refetch reloads after a command whose effect the client does not apply itself.
func (r *Resource[T]) Refetch(ctx context.Context) error { return r.Load(ctx) }

// Replace installs an authoritative value returned by a mutation.
func (r *Resource[T]) Replace(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Snapshot[T]{Status: Ready, Data: v}
}

// Mutate edits the held value in place. It is a no-op unless the resource is Ready.
func (r *Resource[T]) Mutate(fn func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Status != Ready {
		return
	}
	r.state.Data = fn(r.state.Data)
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
