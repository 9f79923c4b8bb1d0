package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/and161185/starostahub/internal/model"
)

// Keys of the persisted local state.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserID       = "user_id"
)

const sessionFile = "session.json"

// FilePersister keeps the identity in <dir>/session.json with 0600 perms.
type FilePersister struct {
	Dir string
}

// NewFilePersister constructs a persister rooted at dir.
func NewFilePersister(dir string) *FilePersister { return &FilePersister{Dir: dir} }

// Path returns the session file location.
func (p *FilePersister) Path() string { return filepath.Join(p.Dir, sessionFile) }

// Save writes all keys at once via temp file + rename.
func (p *FilePersister) Save(id model.Identity) error {
	if err := os.MkdirAll(p.Dir, 0o700); err != nil {
		return err
	}
	kv := map[string]string{
		KeyAccessToken:  id.AccessToken,
		KeyRefreshToken: id.RefreshToken,
		KeyUserID:       id.UserID.String(),
	}
	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(p.Dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, p.Path())
}

// Load reads the saved identity; a missing file is an empty identity.
func (p *FilePersister) Load() (model.Identity, error) {
	b, err := os.ReadFile(p.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Identity{}, nil
		}
		return model.Identity{}, err
	}
	var kv map[string]string
	if err := json.Unmarshal(b, &kv); err != nil {
		return model.Identity{}, err
	}
	id := model.Identity{
		AccessToken:  kv[KeyAccessToken],
		RefreshToken: kv[KeyRefreshToken],
	}
	if raw := kv[KeyUserID]; raw != "" {
		uid, err := model.ParseID(raw)
		if err != nil {
			return model.Identity{}, err
		}
		id.UserID = uid
	}
	id.ExpiresAt = PeekExpiry(id.AccessToken)
	return id, nil
}

// Clear removes the session file wholesale.
func (p *FilePersister) Clear() error {
	err := os.Remove(p.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
