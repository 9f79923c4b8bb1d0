package screen

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/role"
	"github.com/and161185/starostahub/internal/service"
)

// GroupScreen shows a roster and lets the leader add students.
type GroupScreen struct {
	roster  service.RosterService
	userID  model.ID
	groupID model.ID
	cat     *i18n.Catalog
	log     *zap.Logger
	res     *Resource[*model.Group]

	mu        sync.Mutex
	caps      role.Capabilities
	selecting bool
	pool      []model.UserSummary
	selected  []model.ID
}

// NewGroupScreen constructs the screen of groupID (0 for the user's own group)
// as seen by userID.
func NewGroupScreen(roster service.RosterService, userID, groupID model.ID, cat *i18n.Catalog, log *zap.Logger) *GroupScreen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &GroupScreen{roster: roster, userID: userID, groupID: groupID, cat: cat, log: log}
	fetch := func(ctx context.Context) (*model.Group, error) { return roster.Group(ctx, groupID) }
	s.res = NewResource("group", fetch, cat, Messages{Shape: i18n.GroupShape, Error: i18n.GroupError}, log)
	return s
}

// Load fetches the group and recomputes the capabilities.
func (s *GroupScreen) Load(ctx context.Context) error {
	err := s.res.Load(ctx)
	s.recompute()
	return err
}

func (s *GroupScreen) recompute() {
	snap := s.res.Snapshot()
	s.mu.Lock()
	s.caps = role.For(s.userID, snap.Data)
	s.mu.Unlock()
}

// Snapshot returns the group state.
func (s *GroupScreen) Snapshot() Snapshot[*model.Group] { return s.res.Snapshot() }

// Capabilities as of the last fetch.
func (s *GroupScreen) Capabilities() role.Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps
}

// OpenSelection loads the available students and opens the picker. A failed
// pool load is logged and leaves the pool empty.
func (s *GroupScreen) OpenSelection(ctx context.Context) error {
	if !s.Capabilities().CanAddMembers {
		return errs.ErrForbidden
	}
	pool, err := s.roster.Pool(ctx)
	if err != nil {
		s.log.Warn("available students load failed", zap.Error(err))
		pool = nil
	}
	s.mu.Lock()
	s.selecting = true
	s.pool = pool
	s.selected = nil
	s.mu.Unlock()
	return nil
}

// Selecting reports whether the picker is open.
func (s *GroupScreen) Selecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selecting
}

// Pool returns the students offered by the picker.
func (s *GroupScreen) Pool() []model.UserSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.UserSummary(nil), s.pool...)
}

// Toggle flips id in the selection and reports whether it is now selected.
// It does nothing while the picker is closed.
func (s *GroupScreen) Toggle(id model.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selecting {
		return false
	}
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return false
		}
	}
	s.selected = append(s.selected, id)
	return true
}

// Selected returns the selection in toggle order.
func (s *GroupScreen) Selected() []model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ID(nil), s.selected...)
}

// CloseSelection closes the picker and drops the selection.
func (s *GroupScreen) CloseSelection() {
	s.mu.Lock()
	s.selecting, s.pool, s.selected = false, nil, nil
	s.mu.Unlock()
}

// SubmitSelection adds the selected students to the group the screen was
// opened for. Success replaces the group with the server's answer and closes
// the picker; failure leaves everything as is. A closed picker or an empty
// selection is refused without a remote call.
func (s *GroupScreen) SubmitSelection(ctx context.Context) error {
	if !s.Capabilities().CanAddMembers {
		return errs.ErrForbidden
	}
	if !s.Selecting() {
		return fmt.Errorf("%w: student picker is closed", errs.ErrValidation)
	}
	selected := s.Selected()
	if len(selected) == 0 {
		return fmt.Errorf("%w: no students selected", errs.ErrValidation)
	}
	g := s.res.Snapshot().Data

	updated, err := s.roster.AddMembers(ctx, s.userID, s.groupID, g, selected)
	if err != nil {
		s.log.Warn("add students failed", zap.Int("selected", len(selected)), zap.Error(err))
		return &errs.Localized{Message: s.cat.T(i18n.GroupAddStudents), Err: err}
	}
	s.res.Replace(updated)
	s.recompute()
	s.CloseSelection()
	return nil
}
