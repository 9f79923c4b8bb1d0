// Package guard resolves navigations to views and keeps protected views
// behind a held session.
package guard

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/model"
)

// View names a screen of the client.
type View string

const (
	ViewHome     View = "home"
	ViewLogin    View = "login"
	ViewRegister View = "register"
	ViewProfile  View = "profile"
	ViewGroup    View = "group"
	ViewEvents   View = "events"
	ViewNotFound View = "not-found"
)

// Route paths.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathProfile  = "/profile"
	PathLogout   = "/logout"
)

// GroupPath is the route of a group view.
func GroupPath(id model.ID) string { return fmt.Sprintf("/group/%d", id) }

// EventsPath is the route of a group's schedule view.
func EventsPath(id model.ID) string { return fmt.Sprintf("/events/%d", id) }

// State is derived from the credential store on every evaluation.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session is the credential store as seen by the guard.
type Session interface {
	AccessToken() string
	Clear() error
}

// Destination is where a navigation landed.
type Destination struct {
	View View
	Path string
	// ID is the group id of group and events views.
	ID model.ID
	// Redirected is set when a protected target was replaced by login.
	// The original target is not kept.
	Redirected bool
}

// Guard is the session guard plus the route table.
type Guard struct {
	session Session
	router  chi.Router
	log     *zap.Logger
}

// New builds the route table.
func New(session Session, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Guard{session: session, log: log}

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.NotFound(g.land(ViewNotFound))

	r.Get(PathLogin, g.land(ViewLogin))
	r.Get(PathRegister, g.land(ViewRegister))
	r.Get(PathLogout, g.logout)

	r.With(g.requireSession).Get(PathHome, g.land(ViewHome))
	r.With(g.requireSession).Get(PathProfile, g.land(ViewProfile))
	r.With(g.validID, g.requireSession).Get("/group/{id}", g.land(ViewGroup))
	r.With(g.validID, g.requireSession).Get("/events/{id}", g.land(ViewEvents))

	g.router = r
	return g
}

// State reports whether a non-empty access token is held right now.
func (g *Guard) State() State {
	if g.session.AccessToken() != "" {
		return Authenticated
	}
	return Unauthenticated
}

// Navigate resolves path. Protected views need Authenticated; otherwise the
// navigation lands on login. Navigating to /logout clears the session first.
func (g *Guard) Navigate(path string) (Destination, error) {
	res := &resolution{}
	ctx := context.WithValue(context.Background(), resolutionKey{}, res)

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		g.log.Debug("navigate: bad path", zap.String("path", path), zap.Error(err))
		return Destination{View: ViewNotFound, Path: path}, nil
	}
	g.router.ServeHTTP(discard{}, req)

	g.log.Debug("navigate",
		zap.String("path", path),
		zap.String("view", string(res.dest.View)),
		zap.Bool("redirected", res.dest.Redirected),
	)
	return res.dest, res.err
}

// Logout clears the session and lands on login.
func (g *Guard) Logout() (Destination, error) {
	return g.Navigate(PathLogout)
}

type resolutionKey struct{}

type resolution struct {
	dest Destination
	err  error
}

func resolutionFrom(r *http.Request) *resolution {
	if res, ok := r.Context().Value(resolutionKey{}).(*resolution); ok {
		return res
	}
	return &resolution{}
}

func (g *Guard) land(v View) http.HandlerFunc {
	return func(_ http.ResponseWriter, r *http.Request) {
		res := resolutionFrom(r)
		res.dest.View = v
		res.dest.Path = r.URL.Path
		if len(res.dest.Path) > 1 {
			res.dest.Path = strings.TrimRight(res.dest.Path, "/")
		}
		if v == ViewNotFound {
			res.dest.ID = 0
		}
	}
}

func (g *Guard) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.State() == Authenticated {
			next.ServeHTTP(w, r)
			return
		}
		res := resolutionFrom(r)
		res.dest = Destination{View: ViewLogin, Path: PathLogin, Redirected: true}
	})
}

// validID parses {id}; anything but a positive integer is not a route.
func (g *Guard) validID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := model.ParseID(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			g.land(ViewNotFound)(w, r)
			return
		}
		resolutionFrom(r).dest.ID = id
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) logout(_ http.ResponseWriter, r *http.Request) {
	res := resolutionFrom(r)
	res.dest = Destination{View: ViewLogin, Path: PathLogin}
	if err := g.session.Clear(); err != nil {
		res.err = fmt.Errorf("logout: %w", err)
	}
}

type discard struct{}

func (discard) Header() http.Header         { return http.Header{} }
func (discard) Write(b []byte) (int, error) { return len(b), nil }
func (discard) WriteHeader(int)             {}
