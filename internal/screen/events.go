package screen

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/recurrence"
	"github.com/and161185/starostahub/internal/role"
	"github.com/and161185/starostahub/internal/service"
)

// EventsScreen shows a group's schedule; the leader may create, edit and delete.
type EventsScreen struct {
	sched   service.ScheduleService
	roster  service.RosterService
	userID  model.ID
	groupID model.ID
	cat     *i18n.Catalog
	log     *zap.Logger
	res     *Resource[[]model.Event]
	del     DeleteConfirmation

	mu       sync.Mutex
	group    *model.Group
	caps     role.Capabilities
	formOpen bool
	form     model.EventForm
	formErr  string
}

// NewEventsScreen constructs the schedule screen of groupID as seen by userID.
func NewEventsScreen(sched service.ScheduleService, roster service.RosterService, userID, groupID model.ID, cat *i18n.Catalog, log *zap.Logger) *EventsScreen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &EventsScreen{sched: sched, roster: roster, userID: userID, groupID: groupID, cat: cat, log: log}
	fetch := func(ctx context.Context) ([]model.Event, error) { return sched.List(ctx, groupID) }
	s.res = NewResource("events", fetch, cat, Messages{Shape: i18n.EventsShape, Error: i18n.EventsError}, log)
	return s
}

// Load fetches the events, then the group for the role. A failed group fetch
// is logged and leaves the screen read-only.
func (s *EventsScreen) Load(ctx context.Context) error {
	err := s.res.Load(ctx)

	g, gerr := s.roster.Group(ctx, s.groupID)
	if gerr != nil {
		s.log.Warn("group load failed", zap.Stringer("group_id", s.groupID), zap.Error(gerr))
		g = nil
	}
	s.mu.Lock()
	s.group = g
	s.caps = role.For(s.userID, g)
	s.mu.Unlock()
	return err
}

// Snapshot returns the events state.
func (s *EventsScreen) Snapshot() Snapshot[[]model.Event] { return s.res.Snapshot() }

// Group returns the group fetched with the schedule, if any.
func (s *EventsScreen) Group() *model.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group
}

// Capabilities as of the last fetch.
func (s *EventsScreen) Capabilities() role.Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps
}

// NewForm opens an empty creation form.
func (s *EventsScreen) NewForm() (model.EventForm, error) {
	return s.openForm(model.EventForm{Group: s.groupID, IsActive: true})
}

// EditForm opens a form seeded from ev.
func (s *EventsScreen) EditForm(ev model.Event) (model.EventForm, error) {
	return s.openForm(model.FormFromEvent(ev))
}

func (s *EventsScreen) openForm(f model.EventForm) (model.EventForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.caps.CanManageEvents {
		return model.EventForm{}, errs.ErrForbidden
	}
	s.formOpen, s.form, s.formErr = true, f, ""
	return f, nil
}

// Form returns the open form.
func (s *EventsScreen) Form() (model.EventForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form, s.formOpen
}

// FormError is the inline error of the last submit.
func (s *EventsScreen) FormError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formErr
}

// CloseForm discards the form.
func (s *EventsScreen) CloseForm() {
	s.mu.Lock()
	s.formOpen, s.form, s.formErr = false, model.EventForm{}, ""
	s.mu.Unlock()
}

// SubmitForm saves f. A created event is appended to the held list as
// returned; an update refetches the list. On failure the form stays open
// with an inline error.
func (s *EventsScreen) SubmitForm(ctx context.Context, f model.EventForm) error {
	s.mu.Lock()
	open, g, caps := s.formOpen, s.group, s.caps
	if open {
		s.form = f
	}
	s.mu.Unlock()
	if !caps.CanManageEvents {
		return errs.ErrForbidden
	}
	if !open {
		return errors.New("no open event form")
	}

	ev, created, err := s.sched.Save(ctx, s.userID, s.groupID, g, f)
	if err != nil {
		s.log.Warn("event save failed", zap.Bool("create", f.ID == nil), zap.Error(err))
		msg := s.cat.T(i18n.EventSaveError)
		if errors.Is(err, recurrence.ErrInvalidDate) {
			msg = s.cat.T(i18n.EventInvalidDate, f.Date)
		}
		s.mu.Lock()
		s.formErr = msg
		s.mu.Unlock()
		return &errs.Localized{Message: msg, Err: err}
	}

	s.CloseForm()
	if created {
		s.res.Mutate(func(evs []model.Event) []model.Event { return append(evs, ev) })
		return nil
	}
	return s.res.Refetch(ctx)
}

// RequestDelete opens the confirmation for id without contacting the service.
func (s *EventsScreen) RequestDelete(id model.ID) error {
	if !s.Capabilities().CanManageEvents {
		return errs.ErrForbidden
	}
	if !s.del.Open(id) {
		return errors.New("a delete is already in flight")
	}
	return nil
}

// Confirmation returns the delete confirmation state.
func (s *EventsScreen) Confirmation() (ConfirmState, model.ID) { return s.del.State() }

// ConfirmDelete issues the one delete call of this confirmation, then
// refetches the schedule whatever the outcome. The delete error wins over
// a refetch error.
func (s *EventsScreen) ConfirmDelete(ctx context.Context) error {
	g := s.Group()
	err := s.del.Confirm(ctx, func(ctx context.Context, id model.ID) error {
		return s.sched.Delete(ctx, s.userID, s.groupID, g, id)
	})
	if errors.Is(err, errs.ErrNoPendingConfirmation) {
		return err
	}
	if err != nil {
		s.log.Warn("event delete failed", zap.Error(err))
		err = &errs.Localized{Message: s.cat.T(i18n.EventDeleteError), Err: err}
	}
	if rerr := s.res.Refetch(ctx); err == nil {
		err = rerr
	}
	return err
}

// CancelDelete closes the confirmation with no remote call.
func (s *EventsScreen) CancelDelete() error { return s.del.Cancel() }
