// Package recurrence turns event form input into the submission shape and
// previews or exports the resulting schedule.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/and161185/starostahub/internal/model"
)

// DateLayout is the calendar date representation the remote service expects.
const DateLayout = "2006-01-02"

// ErrInvalidDate reports a date the normalizer cannot read.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{DateLayout, "02.01.2006", "2006/01/02"}

// Normalizer converts form input into an EventPayload.
// Loc is the user's calendar; nil means time.Local.
type Normalizer struct {
	Loc *time.Location
}

func (n Normalizer) loc() *time.Location {
	if n.Loc == nil {
		return time.Local
	}
	return n.Loc
}

// Date returns s as YYYY-MM-DD of the local calendar date.
// Timestamps are converted into Loc before the date is taken, never into UTC.
func (n Normalizer) Date(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc()); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(n.loc()).Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Normalize produces the submission payload. recurring_until is null unless the
// event recurs and an end date was entered. Other fields pass through unchanged.
func (n Normalizer) Normalize(f model.EventForm) (model.EventPayload, error) {
	date, err := n.Date(f.Date)
	if err != nil {
		return model.EventPayload{}, fmt.Errorf("date: %w", err)
	}
	p := model.EventPayload{
		ID:        f.ID,
		Name:      f.Name,
		URL:       f.URL,
		Date:      date,
		Time:      f.Time,
		Weekday:   f.Weekday,
		Recurring: f.Recurring,
		IsActive:  f.IsActive,
		Group:     f.Group,
	}
	if f.Recurring && strings.TrimSpace(f.RecurringUntil) != "" {
		until, err := n.Date(f.RecurringUntil)
		if err != nil {
			return model.EventPayload{}, fmt.Errorf("recurring_until: %w", err)
		}
		p.RecurringUntil = &until
	}
	return p, nil
}
