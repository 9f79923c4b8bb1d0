package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/service"
)

// ProfileScreen shows and edits the current user's profile.
type ProfileScreen struct {
	svc service.ProfileService
	cat *i18n.Catalog
	log *zap.Logger
	res *Resource[*model.UserProfile]

	mu      sync.Mutex
	formErr string
}

// NewProfileScreen constructs the screen; call Load to fetch.
func NewProfileScreen(svc service.ProfileService, cat *i18n.Catalog, log *zap.Logger) *ProfileScreen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ProfileScreen{svc: svc, cat: cat, log: log}
	s.res = NewResource("profile", svc.Profile, cat, Messages{Shape: i18n.ProfileShape, Error: i18n.ProfileError}, log)
	return s
}

// Load fetches the profile.
func (s *ProfileScreen) Load(ctx context.Context) error { return s.res.Load(ctx) }

// Snapshot returns the profile state.
func (s *ProfileScreen) Snapshot() Snapshot[*model.UserProfile] { return s.res.Snapshot() }

// Form returns the editable fields prefilled from the held profile.
func (s *ProfileScreen) Form() model.ProfileUpdate {
	p := s.res.Snapshot().Data
	if p == nil {
		return model.ProfileUpdate{}
	}
	return model.ProfileUpdate{Username: p.Username, FirstName: p.FirstName, LastName: p.LastName}
}

// Submit sends the three editable fields. Success replaces the whole profile
// with the server's answer; failure keeps it and sets the inline error.
func (s *ProfileScreen) Submit(ctx context.Context, upd model.ProfileUpdate) error {
	s.setFormErr("")
	p, err := s.svc.Update(ctx, upd)
	if err != nil {
		s.log.Warn("profile update failed", zap.Error(err))
		s.setFormErr(FailureMessage(s.cat, Messages{Shape: i18n.ProfileUpdateShape, Error: i18n.ProfileUpdateError}, err))
		return err
	}
	s.res.Replace(p)
	return nil
}

// FormError is the inline error of the last submit.
func (s *ProfileScreen) FormError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formErr
}

func (s *ProfileScreen) setFormErr(msg string) {
	s.mu.Lock()
	s.formErr = msg
	s.mu.Unlock()
}
