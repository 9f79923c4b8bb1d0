// Package service contains the application services behind the client screens.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/convert"
	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/repository"
	"github.com/and161185/starostahub/internal/session"
)

// AuthService defines sign-in, sign-up and sign-out.
type AuthService interface {
	// Login exchanges credentials for an identity and stores it.
	Login(ctx context.Context, email, password string) (model.Identity, error)
	// Register creates an account; the caller navigates to login on success.
	Register(ctx context.Context, r repository.Registration) error
	// Logout clears the stored identity.
	Logout() error
}

// IdentityStore is the part of the credential store the auth service writes.
type IdentityStore interface {
	Set(id model.Identity) error
	Clear() error
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthServiceImpl struct {
	repo  repository.AuthRepository
	store IdentityStore
	cat   *i18n.Catalog
	log   *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(repo repository.AuthRepository, store IdentityStore, cat *i18n.Catalog, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{repo: repo, store: store, cat: cat, log: log}
}

// Login validates the form, authenticates and writes the identity in one step.
// Every failure after validation is reported as wrong credentials.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.Identity, error) {
	msgs, err := s.cat.Struct(Credentials{Email: email, Password: password})
	if err != nil {
		return model.Identity{}, err
	}
	if len(msgs) > 0 {
		return model.Identity{}, &errs.ValidationError{Messages: msgs}
	}

	res, err := s.repo.Login(ctx, email, password)
	if err == nil && (res.Access == "" || res.UserID == 0) {
		err = fmt.Errorf("login response: %w", errs.ErrShape)
	}
	if err != nil {
		s.log.Info("login failed", zap.String("kind", errs.KindOf(err).String()), zap.Error(err))
		return model.Identity{}, &errs.Localized{Message: s.cat.T(i18n.AuthBadCredentials), Err: err}
	}

	id := model.Identity{
		UserID:       res.UserID,
		AccessToken:  res.Access,
		RefreshToken: res.Refresh,
		ExpiresAt:    session.PeekExpiry(res.Access),
	}
	if err := s.store.Set(id); err != nil {
		return model.Identity{}, fmt.Errorf("store identity: %w", err)
	}
	s.log.Info("logged in", zap.Stringer("user_id", id.UserID))
	return id, nil
}

// Register validates the form and posts it. Server-side field errors are
// flattened into a ValidationError.
func (s *AuthServiceImpl) Register(ctx context.Context, r repository.Registration) error {
	msgs, err := s.cat.Struct(r)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		return &errs.ValidationError{Messages: msgs}
	}

	status, err := s.repo.Register(ctx, r)
	if err != nil {
		return s.registerFailure(err)
	}
	if status != http.StatusCreated {
		s.log.Warn("unexpected register status", zap.Int("status", status))
		return &errs.Localized{Message: s.cat.T(i18n.UnknownFailure)}
	}
	return nil
}

func (s *AuthServiceImpl) registerFailure(err error) error {
	var re *errs.RequestError
	if !errors.As(err, &re) || re.Status == 0 {
		s.log.Warn("register transport failure", zap.Error(err))
		return &errs.Localized{Message: s.cat.T(i18n.NetworkFailure), Err: err}
	}
	msgs, message := convert.ErrorsFromEnvelopeData(re.Body)
	switch {
	case len(msgs) > 0:
	case message != "":
		msgs = []string{message}
	default:
		msgs = []string{s.cat.T(i18n.AuthRegisterFailed)}
	}
	return &errs.ValidationError{Messages: msgs}
}

// Logout clears the stored identity.
func (s *AuthServiceImpl) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info("logged out")
	return nil
}
