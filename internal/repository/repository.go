// Package repository defines the remote resources consumed by the client.
package repository

import (
	"context"

	"github.com/and161185/starostahub/internal/model"
)

// LoginResult is what a successful login yields.
type LoginResult struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	UserID  model.ID `json:"id"`
}

// Registration is the sign-up form body.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// AuthRepository exposes the unauthenticated endpoints.
type AuthRepository interface {
	// Login exchanges credentials for tokens.
	Login(ctx context.Context, email, password string) (LoginResult, error)
	// Register creates an account; it returns the HTTP status of a success response.
	Register(ctx context.Context, r Registration) (int, error)
}

// UserRepository exposes the current user's profile and the student pool.
type UserRepository interface {
	// Profile loads the current user's profile.
	Profile(ctx context.Context) (*model.UserProfile, error)
	// UpdateProfile sends the editable fields and returns the authoritative profile.
	UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error)
	// AvailableStudents lists students that belong to no group.
	AvailableStudents(ctx context.Context) ([]model.UserSummary, error)
}

// GroupRepository exposes groups and their rosters.
type GroupRepository interface {
	// YourGroup loads the group of the current user.
	YourGroup(ctx context.Context) (*model.Group, error)
	// Get loads a group by id.
	Get(ctx context.Context, id model.ID) (*model.Group, error)
	// SetStudents submits the complete target member set.
	SetStudents(ctx context.Context, id model.ID, students []model.ID) (*model.Group, error)
}

// EventRepository exposes a group's schedule.
type EventRepository interface {
	// List returns the group's events, recurring ones expanded by the service.
	List(ctx context.Context, groupID model.ID) ([]model.Event, error)
	// Create persists a new event.
	Create(ctx context.Context, groupID model.ID, p model.EventPayload) (model.Event, error)
	// Update edits an existing event.
	Update(ctx context.Context, groupID, eventID model.ID, p model.EventPayload) (model.Event, error)
	// Delete removes an event.
	Delete(ctx context.Context, groupID, eventID model.ID) error
}
