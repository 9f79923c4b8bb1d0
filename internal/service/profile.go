package service

import (
	"context"

	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/repository"
)

// ProfileService defines reading and editing the current profile.
type ProfileService interface {
	Profile(ctx context.Context) (*model.UserProfile, error)
	// Update sends only the three editable fields.
	Update(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error)
}

type ProfileServiceImpl struct {
	users repository.UserRepository
}

// NewProfileService constructs ProfileService.
func NewProfileService(users repository.UserRepository) *ProfileServiceImpl {
	return &ProfileServiceImpl{users: users}
}

func (s *ProfileServiceImpl) Profile(ctx context.Context) (*model.UserProfile, error) {
	return s.users.Profile(ctx)
}

func (s *ProfileServiceImpl) Update(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error) {
	return s.users.UpdateProfile(ctx, upd)
}
