package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/recurrence"
	"github.com/and161185/starostahub/internal/repository"
	"github.com/and161185/starostahub/internal/role"
)

// ScheduleService defines operations over a group's events.
type ScheduleService interface {
	// List returns the group's events as expanded by the remote service.
	List(ctx context.Context, groupID model.ID) ([]model.Event, error)
	// Save normalizes the form and creates (nil ID) or updates the event of
	// groupID. g is the fetched group that decides the role. Leader only.
	Save(ctx context.Context, userID, groupID model.ID, g *model.Group, form model.EventForm) (ev model.Event, created bool, err error)
	// Delete removes an event of groupID. Leader only.
	Delete(ctx context.Context, userID, groupID model.ID, g *model.Group, eventID model.ID) error
}

type ScheduleServiceImpl struct {
	events repository.EventRepository
	norm   recurrence.Normalizer
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(events repository.EventRepository, norm recurrence.Normalizer) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{events: events, norm: norm}
}

// List fetches the schedule.
func (s *ScheduleServiceImpl) List(ctx context.Context, groupID model.ID) ([]model.Event, error) {
	if groupID <= 0 {
		return nil, fmt.Errorf("group id %d: %w", groupID, errs.ErrNotFound)
	}
	return s.events.List(ctx, groupID)
}

// Save submits the normalized payload. The group is always the screen's group.
func (s *ScheduleServiceImpl) Save(ctx context.Context, userID, groupID model.ID, g *model.Group, form model.EventForm) (model.Event, bool, error) {
	if g == nil {
		return model.Event{}, false, errors.New("validation: nil group")
	}
	if !role.IsLeader(userID, g) {
		return model.Event{}, false, errs.ErrForbidden
	}
	target, err := Target(groupID, g)
	if err != nil {
		return model.Event{}, false, err
	}
	form.Group = target
	p, err := s.norm.Normalize(form)
	if err != nil {
		return model.Event{}, false, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}
	if p.ID == nil {
		ev, err := s.events.Create(ctx, target, p)
		return ev, true, err
	}
	ev, err := s.events.Update(ctx, target, *p.ID, p)
	return ev, false, err
}

// Delete issues one delete call.
func (s *ScheduleServiceImpl) Delete(ctx context.Context, userID, groupID model.ID, g *model.Group, eventID model.ID) error {
	if g == nil {
		return errors.New("validation: nil group")
	}
	if !role.IsLeader(userID, g) {
		return errs.ErrForbidden
	}
	target, err := Target(groupID, g)
	if err != nil {
		return err
	}
	return s.events.Delete(ctx, target, eventID)
}
