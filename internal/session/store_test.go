package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/and161185/starostahub/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersister struct{ err error }

func (f failingPersister) Save(model.Identity) error     { return f.err }
func (f failingPersister) Load() (model.Identity, error) { return model.Identity{}, f.err }
func (f failingPersister) Clear() error                  { return f.err }

func TestStore_SetGetClear(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	_, ok := s.Get()
	assert.False(t, ok)
	assert.Empty(t, s.AccessToken())

	want := model.Identity{UserID: 7, AccessToken: "A", RefreshToken: "R"}
	require.NoError(t, s.Set(want))
	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, "A", s.AccessToken())

	require.NoError(t, s.Clear())
	got, ok = s.Get()
	assert.False(t, ok)
	assert.Equal(t, model.Identity{}, got)
}

func TestStore_RejectsTokenWithoutUser(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	require.Error(t, s.Set(model.Identity{AccessToken: "A"}))
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestStore_PersistFailureKeepsPrevious(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	require.NoError(t, s.Set(model.Identity{UserID: 1, AccessToken: "old"}))
	s.persist = failingPersister{err: errors.New("disk full")}

	require.Error(t, s.Set(model.Identity{UserID: 2, AccessToken: "new"}))
	assert.Equal(t, "old", s.AccessToken())
}

func TestStore_ConcurrentReadersSeeWholeTriples(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	a := model.Identity{UserID: 1, AccessToken: "A1", RefreshToken: "R1"}
	b := model.Identity{UserID: 2, AccessToken: "A2", RefreshToken: "R2"}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				_ = s.Set(a)
			} else {
				_ = s.Set(b)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			got, ok := s.Get()
			if !ok {
				continue
			}
			if got != a && got != b {
				t.Errorf("torn read: %+v", got)
				return
			}
		}
	}()
	wg.Wait()
}

func TestFilePersister_RoundTripAndClear(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "state")
	p := NewFilePersister(dir)

	empty, err := p.Load()
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	s := NewStore(p)
	require.NoError(t, s.Set(model.Identity{UserID: 7, AccessToken: "A", RefreshToken: "R"}))

	fi, err := os.Stat(p.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	restored := NewStore(p)
	require.NoError(t, restored.Restore())
	got, ok := restored.Get()
	require.True(t, ok)
	assert.Equal(t, model.ID(7), got.UserID)
	assert.Equal(t, "R", got.RefreshToken)

	require.NoError(t, restored.Clear())
	_, err = os.Stat(p.Path())
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, p.Clear(), "clearing twice is fine")
}

func TestFilePersister_BadContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewFilePersister(dir)
	require.NoError(t, os.WriteFile(p.Path(), []byte("{"), 0o600))
	_, err := p.Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p.Path(), []byte(`{"access_token":"A","user_id":"x"}`), 0o600))
	_, err = p.Load()
	assert.Error(t, err)
}

func TestStore_RestoreDropsHalfIdentity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewFilePersister(dir)
	require.NoError(t, os.WriteFile(p.Path(), []byte(`{"access_token":"A","user_id":""}`), 0o600))

	s := NewStore(p)
	require.NoError(t, s.Restore())
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestPeekExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	assert.True(t, PeekExpiry(signed).Equal(exp))
	assert.True(t, PeekExpiry("").IsZero())
	assert.True(t, PeekExpiry("opaque-token").IsZero())
}
