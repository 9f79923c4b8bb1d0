// Package model defines the client-side domain entities and their wire shapes.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is the canonical numeric identifier of every remote entity.
// It decodes from a JSON number or a numeric string, so comparisons never
// have to coerce representations.
type ID int64

// ParseID parses a decimal identifier.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// UnmarshalJSON accepts 7 and "7".
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = v
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n)
	return nil
}

// Identity is the authenticated session triple held by the credential store.
type Identity struct {
	UserID       ID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // peeked from the access token, diagnostics only
}

// Empty reports whether no access token is held.
func (i Identity) Empty() bool { return i.AccessToken == "" }

// Role mirrors the remote user roles.
type Role string

const (
	RoleStudent  Role = "student"
	RoleStarosta Role = "starosta"
	RoleTeacher  Role = "teacher"
	RoleAdmin    Role = "admin"
)

// UserSummary is the value-shaped user representation embedded in groups.
type UserSummary struct {
	ID        ID     `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
}

// UserProfile is the current user's profile. Email, FullName and Role are read-only.
type UserProfile struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	Group     *Group `json:"group,omitempty"`
}

// ProfileUpdate carries the three locally editable profile fields.
type ProfileUpdate struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Group is an academic group. Leader is not required to be one of Members.
type Group struct {
	ID      ID            `json:"id"`
	Name    string        `json:"name"`
	Leader  *UserSummary  `json:"starosta"`
	Members []UserSummary `json:"students"`
}

// MemberIDs returns member identifiers in roster order.
func (g *Group) MemberIDs() []ID {
	if g == nil {
		return nil
	}
	out := make([]ID, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, m.ID)
	}
	return out
}

// Event is a scheduled group event. ID is nil until persisted.
type Event struct {
	ID             *ID     `json:"id"`
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Weekday        *int    `json:"weekday"`
	Recurring      bool    `json:"recurring"`
	RecurringUntil *string `json:"recurring_until"`
	IsActive       bool    `json:"is_active"`
	Group          ID      `json:"group"`
}

// EventForm is the raw, user-entered event form state.
type EventForm struct {
	ID             *ID
	Name           string
	URL            string
	Date           string
	Time           string
	Weekday        *int
	Recurring      bool
	RecurringUntil string
	IsActive       bool
	Group          ID
}

// FormFromEvent seeds an edit form from a fetched event.
func FormFromEvent(ev Event) EventForm {
	f := EventForm{
		ID:        ev.ID,
		Name:      ev.Name,
		URL:       ev.URL,
		Date:      ev.Date,
		Time:      ev.Time,
		Weekday:   ev.Weekday,
		Recurring: ev.Recurring,
		IsActive:  ev.IsActive,
		Group:     ev.Group,
	}
	if ev.RecurringUntil != nil {
		f.RecurringUntil = *ev.RecurringUntil
	}
	return f
}

// EventPayload is the normalized event submission body.
type EventPayload struct {
	ID             *ID     `json:"id"`
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Weekday        *int    `json:"weekday"`
	Recurring      bool    `json:"recurring"`
	RecurringUntil *string `json:"recurring_until"`
	IsActive       bool    `json:"is_active"`
	Group          ID      `json:"group"`
}

// Envelope is the response body shape of every remote endpoint.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
}
