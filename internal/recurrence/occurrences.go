package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/and161185/starostahub/internal/model"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// Start combines a YYYY-MM-DD date and an HH:MM[:SS] clock in loc.
// An empty clock means midnight.
func Start(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return d, nil
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, clock); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", clock)
}

// Occurrences previews up to limit start times of p on or after the calendar day
// of from: the same weekday every seven days, through recurring_until inclusive.
// Without an end date the remote service lists only the base event, and so
// does the preview.
func Occurrences(p model.EventPayload, from time.Time, limit int, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if limit <= 0 {
		return nil, nil
	}
	start, err := Start(p.Date, p.Time, loc)
	if err != nil {
		return nil, err
	}
	from = from.In(loc)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)

	if !p.Recurring || p.RecurringUntil == nil {
		if start.Before(day) {
			return nil, nil
		}
		return []time.Time{start}, nil
	}

	until, err := time.ParseInLocation(DateLayout, *p.RecurringUntil, loc)
	if err != nil {
		return nil, fmt.Errorf("recurring_until: %w: %q", ErrInvalidDate, *p.RecurringUntil)
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.WEEKLY,
		Interval: 1,
		Dtstart:  start,
		Until:    until.AddDate(0, 0, 1).Add(-time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("build rule: %w", err)
	}

	out := make([]time.Time, 0, limit)
	for t := r.After(day, true); !t.IsZero() && len(out) < limit; t = r.After(t, false) {
		out = append(out, t.In(loc))
	}
	return out, nil
}
