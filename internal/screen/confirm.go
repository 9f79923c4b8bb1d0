package screen

import (
	"context"
	"sync"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/model"
)

// ConfirmState is the state of a delete confirmation.
type ConfirmState int

const (
	Closed ConfirmState = iota
	Pending
	InFlight
)

func (s ConfirmState) String() string {
	switch s {
	case Pending:
		return "pending"
	case InFlight:
		return "in-flight"
	default:
		return "closed"
	}
}

// DeleteConfirmation guards a destructive call behind an explicit second step.
// It is never persisted.
type DeleteConfirmation struct {
	mu     sync.Mutex
	state  ConfirmState
	target model.ID
}

// Open asks for confirmation of deleting id. It makes no remote call.
// Opening while a delete is in flight is refused.
func (d *DeleteConfirmation) Open(id model.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == InFlight {
		return false
	}
	d.state, d.target = Pending, id
	return true
}

// State returns the state and the target event.
func (d *DeleteConfirmation) State() (ConfirmState, model.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.target
}

// Confirm runs del exactly once for the pending target and closes.
func (d *DeleteConfirmation) Confirm(ctx context.Context, del func(ctx context.Context, id model.ID) error) error {
	d.mu.Lock()
	if d.state != Pending {
		d.mu.Unlock()
		return errs.ErrNoPendingConfirmation
	}
	d.state = InFlight
	id := d.target
	d.mu.Unlock()

	err := del(ctx, id)

	d.mu.Lock()
	d.state, d.target = Closed, 0
	d.mu.Unlock()
	return err
}

// Cancel drops a pending confirmation without any remote call.
func (d *DeleteConfirmation) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Pending {
		return errs.ErrNoPendingConfirmation
	}
	d.state, d.target = Closed, 0
	return nil
}
