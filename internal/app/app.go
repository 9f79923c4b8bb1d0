// Package app is the composition root: it owns the credential store and
// wires configuration, transport, services, the guard and the screens.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/config"
	"github.com/and161185/starostahub/internal/gateway"
	"github.com/and161185/starostahub/internal/guard"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/recurrence"
	"github.com/and161185/starostahub/internal/repository/rest"
	"github.com/and161185/starostahub/internal/screen"
	"github.com/and161185/starostahub/internal/service"
	"github.com/and161185/starostahub/internal/session"
)

// App holds one client session and everything built around it.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Catalog  *i18n.Catalog
	Loc      *time.Location
	Store    *session.Store
	Guard    *guard.Guard
	Auth     *service.AuthServiceImpl
	Profiles *service.ProfileServiceImpl
	Roster   *service.RosterServiceImpl
	Schedule *service.ScheduleServiceImpl

	// Now is the clock of occurrence previews and exports.
	Now func() time.Time
}

// New wires an App from cfg. With a non-empty stateDir the session is
// persisted there and restored now; otherwise it lives in memory only.
func New(cfg *config.Config, stateDir string, log *zap.Logger, opts ...gateway.Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Normalize()

	locale, err := i18n.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	cat, err := i18n.New(locale)
	if err != nil {
		return nil, fmt.Errorf("app: catalog: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	var persister session.Persister
	if stateDir != "" {
		persister = session.NewFilePersister(stateDir)
	}
	store := session.NewStore(persister)
	if err := store.Restore(); err != nil {
		// a broken session file means signing in again, not a dead client
		log.Warn("session restore failed", zap.String("dir", stateDir), zap.Error(err))
		if cerr := store.Clear(); cerr != nil {
			return nil, fmt.Errorf("app: reset session: %w", cerr)
		}
	}

	gw := gateway.New(cfg.APIURL, store, log, opts...)
	users := rest.NewUserRepo(gw)

	a := &App{
		Config:   cfg,
		Log:      log,
		Catalog:  cat,
		Loc:      loc,
		Store:    store,
		Guard:    guard.New(store, log),
		Auth:     service.NewAuthService(rest.NewAuthRepo(gw), store, cat, log),
		Profiles: service.NewProfileService(users),
		Roster:   service.NewRosterService(rest.NewGroupRepo(gw), users),
		Schedule: service.NewScheduleService(rest.NewEventRepo(gw), recurrence.Normalizer{Loc: loc}),
		Now:      time.Now,
	}
	log.Debug("app ready",
		zap.String("api", cfg.APIURL),
		zap.String("locale", string(locale)),
		zap.String("tz", loc.String()),
		zap.Bool("persistent", persister != nil),
	)
	return a, nil
}

// Session returns ctx carrying the current identity, if one is held.
func (a *App) Session(ctx context.Context) (context.Context, model.Identity) {
	id, ok := a.Store.Get()
	if !ok {
		return ctx, model.Identity{}
	}
	return session.WithIdentity(ctx, id), id
}

// Login signs in and navigates home.
func (a *App) Login(ctx context.Context, email, password string) (guard.Destination, error) {
	if _, err := a.Auth.Login(ctx, email, password); err != nil {
		return guard.Destination{}, err
	}
	return a.Guard.Navigate(guard.PathHome)
}

// Logout clears the session through the logout route.
func (a *App) Logout() (guard.Destination, error) {
	return a.Guard.Logout()
}

// ProfileScreen builds the profile screen of the current user.
func (a *App) ProfileScreen() *screen.ProfileScreen {
	return screen.NewProfileScreen(a.Profiles, a.Catalog, a.Log.Named("profile"))
}

// GroupScreen builds the roster screen of groupID (0 for the user's own group).
func (a *App) GroupScreen(groupID model.ID) *screen.GroupScreen {
	id, _ := a.Store.Get()
	return screen.NewGroupScreen(a.Roster, id.UserID, groupID, a.Catalog, a.Log.Named("group"))
}

// EventsScreen builds the schedule screen of groupID.
func (a *App) EventsScreen(groupID model.ID) *screen.EventsScreen {
	id, _ := a.Store.Get()
	return screen.NewEventsScreen(a.Schedule, a.Roster, id.UserID, groupID, a.Catalog, a.Log.Named("events"))
}

// Page is a resolved navigation with the screen of its view loaded.
type Page struct {
	Dest    guard.Destination
	Profile *screen.ProfileScreen
	Group   *screen.GroupScreen
	Events  *screen.EventsScreen
}

// Open navigates to path and loads the screen it lands on. Fetch failures
// are not returned: they are part of the screen state.
func (a *App) Open(ctx context.Context, path string) (Page, error) {
	dest, err := a.Guard.Navigate(path)
	if err != nil {
		return Page{Dest: dest}, err
	}
	ctx, _ = a.Session(ctx)

	p := Page{Dest: dest}
	switch dest.View {
	case guard.ViewProfile:
		p.Profile = a.ProfileScreen()
		_ = p.Profile.Load(ctx)
	case guard.ViewGroup:
		p.Group = a.GroupScreen(dest.ID)
		_ = p.Group.Load(ctx)
	case guard.ViewEvents:
		p.Events = a.EventsScreen(dest.ID)
		_ = p.Events.Load(ctx)
	}
	return p, nil
}

// Preview lists the next occurrences of a saved event from now.
func (a *App) Preview(ev model.Event) ([]time.Time, error) {
	p := model.EventPayload{
		ID:             ev.ID,
		Date:           ev.Date,
		Time:           ev.Time,
		Recurring:      ev.Recurring,
		RecurringUntil: ev.RecurringUntil,
		IsActive:       ev.IsActive,
		Group:          ev.Group,
	}
	return recurrence.Occurrences(p, a.Now().In(a.Loc), a.Config.PreviewCount, a.Loc)
}

// ExportICS writes the schedule of groupID as an iCalendar document.
func (a *App) ExportICS(ctx context.Context, w io.Writer, groupID model.ID) error {
	ctx, _ = a.Session(ctx)
	events, err := a.Schedule.List(ctx, groupID)
	if err != nil {
		return err
	}
	name := ""
	if g, err := a.Roster.Group(ctx, groupID); err == nil {
		name = g.Name
	} else {
		a.Log.Warn("group load failed, exporting without a calendar name", zap.Stringer("group_id", groupID), zap.Error(err))
	}
	ex := recurrence.Exporter{Loc: a.Loc, Now: a.Now}
	return ex.Export(w, name, events)
}
