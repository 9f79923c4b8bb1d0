// Package rest implements repository interfaces over the remote REST service.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/and161185/starostahub/internal/convert"
	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/repository"
)

// Doer is the subset of the gateway used by repositories.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) (int, error)
}

// Remote paths.
const (
	pathLogin             = "/api/auth/login"
	pathRegister          = "/api/auth/register"
	pathProfile           = "/api/user/profile"
	pathYourGroup         = "/api/user/your-group"
	pathAvailableStudents = "/api/user/available-students"
)

func groupPath(id model.ID) string { return fmt.Sprintf("/api/user/groups/%d", id) }

func eventsPath(groupID model.ID) string { return groupPath(groupID) + "/events" }

func eventPath(groupID, eventID model.ID) string {
	return fmt.Sprintf("%s/%d", eventsPath(groupID), eventID)
}

var (
	_ repository.AuthRepository  = (*AuthRepo)(nil)
	_ repository.UserRepository  = (*UserRepo)(nil)
	_ repository.GroupRepository = (*GroupRepo)(nil)
	_ repository.EventRepository = (*EventRepo)(nil)
)

// shaped marks conversion failures as shape failures.
func shaped[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", errs.ErrShape, err)
	}
	return v, nil
}

// --- auth ---

// AuthRepo implements AuthRepository.
type AuthRepo struct{ gw Doer }

// NewAuthRepo constructs an auth repository.
func NewAuthRepo(gw Doer) *AuthRepo { return &AuthRepo{gw: gw} }

// Login posts credentials.
func (r *AuthRepo) Login(ctx context.Context, email, password string) (repository.LoginResult, error) {
	var out repository.LoginResult
	in := map[string]string{"email": email, "password": password}
	if _, err := r.gw.Do(ctx, http.MethodPost, pathLogin, in, &out); err != nil {
		return repository.LoginResult{}, err
	}
	return out, nil
}

// Register posts the sign-up form; the body of a success response is not needed.
func (r *AuthRepo) Register(ctx context.Context, reg repository.Registration) (int, error) {
	return r.gw.Do(ctx, http.MethodPost, pathRegister, reg, nil)
}

// --- users ---

// UserRepo implements UserRepository.
type UserRepo struct{ gw Doer }

// NewUserRepo constructs a user repository.
func NewUserRepo(gw Doer) *UserRepo { return &UserRepo{gw: gw} }

// Profile loads the current profile.
func (r *UserRepo) Profile(ctx context.Context) (*model.UserProfile, error) {
	var p model.UserProfile
	if _, err := r.gw.Do(ctx, http.MethodGet, pathProfile, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile patches the editable fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error) {
	var p model.UserProfile
	if _, err := r.gw.Do(ctx, http.MethodPatch, pathProfile, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AvailableStudents lists the unassigned student pool.
func (r *UserRepo) AvailableStudents(ctx context.Context) ([]model.UserSummary, error) {
	var out []model.UserSummary
	if _, err := r.gw.Do(ctx, http.MethodGet, pathAvailableStudents, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- groups ---

// GroupRepo implements GroupRepository.
type GroupRepo struct{ gw Doer }

// NewGroupRepo constructs a group repository.
func NewGroupRepo(gw Doer) *GroupRepo { return &GroupRepo{gw: gw} }

// YourGroup loads the caller's group.
func (r *GroupRepo) YourGroup(ctx context.Context) (*model.Group, error) {
	var g model.Group
	if _, err := r.gw.Do(ctx, http.MethodGet, pathYourGroup, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Get loads a group.
func (r *GroupRepo) Get(ctx context.Context, id model.ID) (*model.Group, error) {
	var g model.Group
	if _, err := r.gw.Do(ctx, http.MethodGet, groupPath(id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SetStudents replaces the member set wholesale.
func (r *GroupRepo) SetStudents(ctx context.Context, id model.ID, students []model.ID) (*model.Group, error) {
	if students == nil {
		students = []model.ID{}
	}
	in := struct {
		Students []model.ID `json:"students"`
	}{Students: students}
	var g model.Group
	if _, err := r.gw.Do(ctx, http.MethodPatch, groupPath(id), in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// --- events ---

// EventRepo implements EventRepository.
type EventRepo struct{ gw Doer }

// NewEventRepo constructs an event repository.
func NewEventRepo(gw Doer) *EventRepo { return &EventRepo{gw: gw} }

// List loads the schedule.
func (r *EventRepo) List(ctx context.Context, groupID model.ID) ([]model.Event, error) {
	var raw json.RawMessage
	if _, err := r.gw.Do(ctx, http.MethodGet, eventsPath(groupID), nil, &raw); err != nil {
		return nil, err
	}
	return shaped(convert.EventsFromWire(raw))
}

// Create posts a new event.
func (r *EventRepo) Create(ctx context.Context, groupID model.ID, p model.EventPayload) (model.Event, error) {
	var raw json.RawMessage
	if _, err := r.gw.Do(ctx, http.MethodPost, eventsPath(groupID), p, &raw); err != nil {
		return model.Event{}, err
	}
	return shaped(convert.EventFromWire(raw))
}

// Update patches an event.
func (r *EventRepo) Update(ctx context.Context, groupID, eventID model.ID, p model.EventPayload) (model.Event, error) {
	var raw json.RawMessage
	if _, err := r.gw.Do(ctx, http.MethodPatch, eventPath(groupID, eventID), p, &raw); err != nil {
		return model.Event{}, err
	}
	return shaped(convert.EventFromWire(raw))
}

// Delete removes an event.
func (r *EventRepo) Delete(ctx context.Context, groupID, eventID model.ID) error {
	_, err := r.gw.Do(ctx, http.MethodDelete, eventPath(groupID, eventID), nil, nil)
	return err
}
