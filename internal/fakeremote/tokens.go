package fakeremote

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/starostahub/internal/model"
)

// Token kinds keep access and refresh tokens signed with one key apart.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

type claims struct {
	Kind string `json:"token_type"`
	jwt.RegisteredClaims
}

// issuer signs and verifies HS256 tokens whose subject is the user id.
type issuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func newIssuer(key []byte, accessTTL time.Duration) *issuer {
	if len(key) == 0 {
		key = []byte("fakeremote-" + uuid.Must(uuid.NewV4()).String())
	}
	return &issuer{key: key, accessTTL: accessTTL, refreshTTL: 24 * time.Hour, now: time.Now}
}

func (i *issuer) issue(id model.ID, kind string) (string, error) {
	ttl := i.accessTTL
	if kind == kindRefresh {
		ttl = i.refreshTTL
	}
	now := i.now()
	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV4()).String(),
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
}

// verify checks signature, expiry and kind, and returns the subject.
func (i *issuer) verify(tok, kind string) (model.ID, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tok, &c, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithLeeway(30*time.Second))
	if err != nil || !parsed.Valid {
		return 0, errors.New("invalid token")
	}
	if c.Kind != kind {
		return 0, errors.New("wrong token type")
	}
	id, err := model.ParseID(c.Subject)
	if err != nil || id <= 0 {
		return 0, errors.New("bad subject")
	}
	return id, nil
}

func bearerToken(r *http.Request) (string, error) {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		if t := strings.TrimSpace(v[7:]); t != "" {
			return t, nil
		}
	}
	return "", errors.New("no bearer token")
}
