package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/and161185/starostahub/internal/guard"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/repository"
	"github.com/and161185/starostahub/internal/screen"
)

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errw)
	return fs
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (c *cli) cmdLogin(ctx context.Context, args []string) int {
	fs := c.flags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	dest, err := c.app.Login(ctx, *email, *password)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, c.cat.T(i18n.LoginDone))
	return renderHome(c.out, c.cat, dest)
}

func (c *cli) cmdRegister(ctx context.Context, args []string) int {
	fs := c.flags("register")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	reg := repository.Registration{Email: *email, Password: *password, FirstName: *first, LastName: *last}
	if err := c.app.Auth.Register(ctx, reg); err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, c.cat.T(i18n.RegisterDone))
	return 0
}

func (c *cli) cmdLogout() int {
	dest, err := c.app.Logout()
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, dest.Path)
	return 0
}

func (c *cli) cmdStatus() int {
	id, ok := c.app.Store.Get()
	fmt.Fprintf(c.out, "state: %s\n", c.app.Guard.State())
	fmt.Fprintf(c.out, "api: %s\n", c.app.Config.APIURL)
	if !ok {
		return 0
	}
	fmt.Fprintf(c.out, "user: %s\n", id.UserID)
	if !id.ExpiresAt.IsZero() {
		fmt.Fprintf(c.out, "token expires: %s\n", id.ExpiresAt.In(c.app.Loc).Format("2006-01-02 15:04"))
	}
	return 0
}

func (c *cli) cmdOpen(ctx context.Context, args []string) int {
	route := "/"
	if len(args) > 0 {
		route = args[0]
	}
	p, err := c.app.Open(ctx, route)
	if err != nil {
		return c.fail(err)
	}
	return renderPage(c.out, c.cat, p)
}

func (c *cli) cmdProfileEdit(ctx context.Context, args []string) int {
	fs := c.flags("profile-edit")
	username := fs.String("username", "", "username")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	set := setFlags(fs)
	if len(set) == 0 {
		return c.need("-username, -first or -last")
	}

	ctx, _ = c.app.Session(ctx)
	s := c.app.ProfileScreen()
	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(c.errw, s.Snapshot().Message)
		return 1
	}
	form := s.Form()
	if set["username"] {
		form.Username = *username
	}
	if set["first"] {
		form.FirstName = *first
	}
	if set["last"] {
		form.LastName = *last
	}
	if err := s.Submit(ctx, form); err != nil {
		fmt.Fprintln(c.errw, s.FormError())
		return 1
	}
	fmt.Fprintln(c.out, c.cat.T(i18n.ProfileSaved))
	return renderProfile(c.out, c.cat, s.Snapshot())
}

func (c *cli) cmdAddStudents(ctx context.Context, args []string) int {
	fs := c.flags("add-students")
	group := fs.String("group", "", "group id")
	ids := fs.String("ids", "", "comma separated student ids")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	gid, err := model.ParseID(*group)
	if err != nil || gid <= 0 {
		return c.need("-group <id>")
	}
	selected, err := parseIDs(*ids)
	if err != nil {
		return c.fail(err)
	}

	ctx, _ = c.app.Session(ctx)
	s := c.app.GroupScreen(gid)
	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(c.errw, s.Snapshot().Message)
		return 1
	}
	if err := s.OpenSelection(ctx); err != nil {
		return c.fail(err)
	}
	if len(selected) == 0 {
		return renderPool(c.out, c.cat, s.Pool())
	}
	for _, id := range selected {
		s.Toggle(id)
	}
	if err := s.SubmitSelection(ctx); err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, c.cat.T(i18n.StudentsAdded))
	return renderGroup(c.out, c.cat, s.Snapshot())
}

// eventFlags are shared by event-add and event-edit.
type eventFlags struct {
	name      *string
	url       *string
	date      *string
	clock     *string
	recurring *bool
	until     *string
	inactive  *bool
}

func bindEventFlags(fs *flag.FlagSet) eventFlags {
	return eventFlags{
		name:      fs.String("name", "", "event name"),
		url:       fs.String("url", "", "meeting link"),
		date:      fs.String("date", "", "date: 2006-01-02, 02.01.2006 or RFC 3339"),
		clock:     fs.String("time", "", "start time hh:mm"),
		recurring: fs.Bool("recurring", false, "repeat weekly"),
		until:     fs.String("until", "", "last date of a weekly event"),
		inactive:  fs.Bool("inactive", false, "mark the event inactive"),
	}
}

// apply copies the given flags onto f; flags not on the command line keep f's values.
func (e eventFlags) apply(f *model.EventForm, set map[string]bool) {
	if set["name"] {
		f.Name = *e.name
	}
	if set["url"] {
		f.URL = *e.url
	}
	if set["date"] {
		f.Date = *e.date
	}
	if set["time"] {
		f.Time = *e.clock
	}
	if set["recurring"] {
		f.Recurring = *e.recurring
	}
	if set["until"] {
		f.RecurringUntil = *e.until
	}
	if set["inactive"] {
		f.IsActive = !*e.inactive
	}
}

func (c *cli) cmdEventSave(ctx context.Context, name string, args []string) int {
	fs := c.flags(name)
	group := fs.String("group", "", "group id")
	eventID := fs.String("id", "", "event id (event-edit)")
	ef := bindEventFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	gid, err := model.ParseID(*group)
	if err != nil || gid <= 0 {
		return c.need("-group <id>")
	}
	editing := name == "event-edit"
	var eid model.ID
	if editing {
		if eid, err = model.ParseID(*eventID); err != nil || eid <= 0 {
			return c.need("-id <event id>")
		}
	}

	ctx, _ = c.app.Session(ctx)
	s := c.app.EventsScreen(gid)
	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(c.errw, s.Snapshot().Message)
		return 1
	}

	var form model.EventForm
	if editing {
		ev, ok := findEvent(s.Snapshot().Data, eid)
		if !ok {
			fmt.Fprintln(c.errw, c.cat.T(i18n.NotFound))
			return 1
		}
		form, err = s.EditForm(ev)
	} else {
		form, err = s.NewForm()
	}
	if err != nil {
		return c.fail(err)
	}
	ef.apply(&form, setFlags(fs))

	if err := s.SubmitForm(ctx, form); err != nil {
		if msg := s.FormError(); msg != "" {
			fmt.Fprintln(c.errw, msg)
			return 1
		}
		return c.fail(err)
	}
	fmt.Fprintln(c.out, c.cat.T(i18n.EventSaved))

	evs := s.Snapshot().Data
	var saved model.Event
	var ok bool
	if editing {
		saved, ok = findEvent(evs, eid)
	} else if len(evs) > 0 {
		saved, ok = evs[len(evs)-1], true
	}
	if !ok {
		return 0
	}
	renderEvent(c.out, c.cat, saved)
	dates, err := c.app.Preview(saved)
	if err != nil {
		return c.fail(err)
	}
	renderDates(c.out, c.cat, dates)
	return 0
}

func (c *cli) cmdEventRemove(ctx context.Context, args []string) int {
	fs := c.flags("event-rm")
	group := fs.String("group", "", "group id")
	eventID := fs.String("id", "", "event id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	gid, gerr := model.ParseID(*group)
	eid, eerr := model.ParseID(*eventID)
	if gerr != nil || eerr != nil || gid <= 0 || eid <= 0 {
		return c.need("-group <id> and -id <event id>")
	}

	ctx, _ = c.app.Session(ctx)
	s := c.app.EventsScreen(gid)
	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(c.errw, s.Snapshot().Message)
		return 1
	}
	ev, ok := findEvent(s.Snapshot().Data, eid)
	if !ok {
		fmt.Fprintln(c.errw, c.cat.T(i18n.NotFound))
		return 1
	}
	if err := s.RequestDelete(eid); err != nil {
		return c.fail(err)
	}

	if !*yes && !c.confirm(c.cat.T(i18n.ConfirmDelete, ev.Name)) {
		if err := s.CancelDelete(); err != nil {
			return c.fail(err)
		}
		fmt.Fprintln(c.out, c.cat.T(i18n.DeleteCanceled))
		return 0
	}
	if err := s.ConfirmDelete(ctx); err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, c.cat.T(i18n.EventDeleted))
	return renderEvents(c.out, c.cat, s.Snapshot())
}

// confirm asks a yes/no question on the terminal; anything but yes is no.
func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [%s/%s]: ", question, c.cat.T(i18n.Yes), c.cat.T(i18n.No))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "т", "так", strings.ToLower(c.cat.T(i18n.Yes)):
		return true
	}
	return false
}

func (c *cli) cmdICS(ctx context.Context, args []string) int {
	fs := c.flags("ics")
	group := fs.String("group", "", "group id")
	out := fs.String("out", "-", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	gid, err := model.ParseID(*group)
	if err != nil || gid <= 0 {
		return c.need("-group <id>")
	}
	if c.app.Guard.State() != guard.Authenticated {
		fmt.Fprintln(c.errw, c.cat.T(i18n.AuthUnauthorized))
		return 1
	}

	var w io.Writer = c.out
	if *out != "-" {
		f, err := os.OpenFile(*out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return c.fail(err)
		}
		defer f.Close()
		w = f
	}
	if err := c.app.ExportICS(ctx, w, gid); err != nil {
		msg := screen.FailureMessage(c.cat, screen.Messages{Shape: i18n.EventsShape, Error: i18n.EventsError}, err)
		fmt.Fprintln(c.errw, msg)
		return 1
	}
	return 0
}

func findEvent(evs []model.Event, id model.ID) (model.Event, bool) {
	for _, ev := range evs {
		if ev.ID != nil && *ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

func parseIDs(s string) ([]model.ID, error) {
	var out []model.ID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := model.ParseID(part)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}
