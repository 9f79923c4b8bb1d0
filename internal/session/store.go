// Package session holds the authenticated identity for the lifetime of the client.
package session

import (
	"errors"
	"sync"

	"github.com/and161185/starostahub/internal/model"
)

// Persister saves the identity across runs.
type Persister interface {
	// Save writes the whole identity.
	Save(id model.Identity) error
	// Load returns the saved identity or an empty one.
	Load() (model.Identity, error)
	// Clear removes every saved field.
	Clear() error
}

// Store is the credential store. Writes replace the whole triple at once,
// so readers never observe a partially written identity.
type Store struct {
	mu      sync.RWMutex
	current model.Identity
	persist Persister
}

// NewStore constructs an empty store; p may be nil for an in-memory store.
func NewStore(p Persister) *Store {
	return &Store{persist: p}
}

// Set stores the identity atomically.
func (s *Store) Set(id model.Identity) error {
	if id.AccessToken != "" && id.UserID == 0 {
		return errors.New("session: access token without user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persist != nil {
		if err := s.persist.Save(id); err != nil {
			return err
		}
	}
	s.current = id
	return nil
}

// Get returns a copy of the current identity and whether one is held.
func (s *Store) Get() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, !s.current.Empty()
}

// AccessToken returns the current bearer token or "".
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// Clear removes all fields, in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = model.Identity{}
	if s.persist != nil {
		return s.persist.Clear()
	}
	return nil
}

// Restore loads a previously persisted identity into memory.
func (s *Store) Restore() error {
	if s.persist == nil {
		return nil
	}
	id, err := s.persist.Load()
	if err != nil {
		return err
	}
	if id.AccessToken != "" && id.UserID == 0 {
		// never resurrect a half identity
		id = model.Identity{}
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return nil
}
