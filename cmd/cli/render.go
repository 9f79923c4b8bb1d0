package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/and161185/starostahub/internal/app"
	"github.com/and161185/starostahub/internal/guard"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/screen"
)

// renderPage prints the view a navigation landed on and returns the exit
// code: 1 when the view's data failed to load.
func renderPage(w io.Writer, cat *i18n.Catalog, p app.Page) int {
	switch p.Dest.View {
	case guard.ViewHome:
		return renderHome(w, cat, p.Dest)
	case guard.ViewLogin:
		fmt.Fprintf(w, "%s (%s)\n", cat.T(i18n.LoginTitle), p.Dest.Path)
		if p.Dest.Redirected {
			return 1
		}
		return 0
	case guard.ViewRegister:
		fmt.Fprintf(w, "%s (%s)\n", cat.T(i18n.RegisterTitle), p.Dest.Path)
		return 0
	case guard.ViewProfile:
		return renderProfile(w, cat, p.Profile.Snapshot())
	case guard.ViewGroup:
		return renderGroup(w, cat, p.Group.Snapshot())
	case guard.ViewEvents:
		code := renderEvents(w, cat, p.Events.Snapshot())
		if g := p.Events.Group(); g != nil && code == 0 {
			fmt.Fprintf(w, "%s: %s (%s)\n", cat.T(i18n.LabelGroup), g.Name, guard.GroupPath(g.ID))
		}
		return code
	default:
		fmt.Fprintln(w, cat.T(i18n.NotFound))
		return 1
	}
}

func renderHome(w io.Writer, cat *i18n.Catalog, dest guard.Destination) int {
	if dest.View != guard.ViewHome {
		return 0
	}
	fmt.Fprintln(w, cat.T(i18n.MenuTitle))
	fmt.Fprintf(w, "  %-10s %s\n", guard.PathProfile, cat.T(i18n.MenuProfile))
	fmt.Fprintf(w, "  %-10s %s\n", guard.PathLogout, cat.T(i18n.MenuLogout))
	return 0
}

func renderProfile(w io.Writer, cat *i18n.Catalog, snap screen.Snapshot[*model.UserProfile]) int {
	if !snap.Ready() || snap.Data == nil {
		fmt.Fprintln(w, snap.Message)
		return 1
	}
	p := snap.Data
	fmt.Fprintf(w, "%s: %s\n", cat.FieldLabel("email"), p.Email)
	fmt.Fprintf(w, "%s: %s\n", cat.T(i18n.LabelFullName), p.FullName)
	fmt.Fprintf(w, "%s: %s\n", cat.FieldLabel("username"), p.Username)
	fmt.Fprintf(w, "%s: %s\n", cat.FieldLabel("first_name"), p.FirstName)
	fmt.Fprintf(w, "%s: %s\n", cat.FieldLabel("last_name"), p.LastName)
	fmt.Fprintf(w, "%s: %s\n", cat.T(i18n.LabelRole), p.Role)
	if p.Group != nil {
		fmt.Fprintf(w, "%s: %s (%s)\n", cat.T(i18n.LabelGroup), p.Group.Name, guard.GroupPath(p.Group.ID))
	}
	return 0
}

func renderGroup(w io.Writer, cat *i18n.Catalog, snap screen.Snapshot[*model.Group]) int {
	if !snap.Ready() || snap.Data == nil {
		fmt.Fprintln(w, snap.Message)
		return 1
	}
	g := snap.Data
	fmt.Fprintf(w, "%s: %s (%s)\n", cat.T(i18n.LabelGroup), g.Name, guard.EventsPath(g.ID))
	leader := cat.T(i18n.LabelNone)
	if g.Leader != nil {
		leader = g.Leader.FullName
	}
	fmt.Fprintf(w, "%s: %s\n", cat.T(i18n.LabelLeader), leader)
	fmt.Fprintf(w, "%s:\n", cat.T(i18n.LabelMembers))
	for _, m := range g.Members {
		fmt.Fprintf(w, "  %6s  %s <%s>\n", m.ID, m.FullName, m.Email)
	}
	return 0
}

func renderPool(w io.Writer, cat *i18n.Catalog, pool []model.UserSummary) int {
	if len(pool) == 0 {
		fmt.Fprintln(w, cat.T(i18n.NoStudents))
		return 0
	}
	for _, u := range pool {
		fmt.Fprintf(w, "  %6s  %s <%s>\n", u.ID, u.FullName, u.Email)
	}
	return 0
}

func renderEvents(w io.Writer, cat *i18n.Catalog, snap screen.Snapshot[[]model.Event]) int {
	if !snap.Ready() {
		fmt.Fprintln(w, snap.Message)
		return 1
	}
	fmt.Fprintln(w, cat.T(i18n.LabelSchedule))
	if len(snap.Data) == 0 {
		fmt.Fprintln(w, cat.T(i18n.NoEvents))
		return 0
	}
	for _, ev := range snap.Data {
		renderEvent(w, cat, ev)
	}
	return 0
}

func renderEvent(w io.Writer, cat *i18n.Catalog, ev model.Event) {
	id := "-"
	if ev.ID != nil {
		id = ev.ID.String()
	}
	var notes []string
	if ev.Recurring && ev.RecurringUntil != nil {
		notes = append(notes, cat.T(i18n.LabelWeekly, *ev.RecurringUntil))
	}
	if !ev.IsActive {
		notes = append(notes, cat.T(i18n.LabelInactive))
	}
	line := fmt.Sprintf("  %6s  %s %-5s  %s", id, ev.Date, ev.Time, ev.Name)
	if ev.URL != "" {
		line += "  " + ev.URL
	}
	if len(notes) > 0 {
		line += "  (" + strings.Join(notes, ", ") + ")"
	}
	fmt.Fprintln(w, line)
}

func renderDates(w io.Writer, cat *i18n.Catalog, dates []time.Time) {
	if len(dates) == 0 {
		return
	}
	fmt.Fprintln(w, cat.T(i18n.NextDates))
	for _, d := range dates {
		fmt.Fprintf(w, "  %s\n", d.Format("Mon 2006-01-02 15:04"))
	}
}
