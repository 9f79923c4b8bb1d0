package recurrence

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/and161185/starostahub/internal/model"
)

// DefaultDuration is the length given to exported events; the schedule stores start times only.
const DefaultDuration = 90 * time.Minute

// Exporter renders a group schedule as an iCalendar document.
type Exporter struct {
	Loc      *time.Location
	Duration time.Duration
	Now      func() time.Time
}

// Export writes one VEVENT per active event. The service already expands
// recurring events into dated entries, so no RRULE is emitted.
func (e Exporter) Export(w io.Writer, groupName string, events []model.Event) error {
	loc := e.Loc
	if loc == nil {
		loc = time.Local
	}
	dur := e.Duration
	if dur <= 0 {
		dur = DefaultDuration
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//starostahub//schedule//UK")
	if groupName != "" {
		cal.SetXWRCalName(groupName)
	}
	stamp := now().UTC()

	for _, ev := range events {
		if !ev.IsActive {
			continue
		}
		start, err := Start(ev.Date, ev.Time, loc)
		if err != nil {
			return fmt.Errorf("event %q: %w", ev.Name, err)
		}
		vev := cal.AddEvent(eventUID(ev, start))
		vev.SetDtStampTime(stamp)
		vev.SetStartAt(start)
		vev.SetEndAt(start.Add(dur))
		vev.SetSummary(ev.Name)
		if ev.URL != "" {
			vev.SetURL(ev.URL)
		}
	}
	return cal.SerializeTo(w)
}

func eventUID(ev model.Event, start time.Time) string {
	id := "new"
	if ev.ID != nil {
		id = ev.ID.String()
	}
	return fmt.Sprintf("event-%s-%s@starostahub", id, start.Format("20060102"))
}
