// Package fakeremote is an in-memory stand-in for the remote REST service.
// Package tests run it behind httptest; cmd/server serves it for local
// development.
package fakeremote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/crypto"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/recurrence"
)

// User is a stored account.
type User struct {
	Profile      model.UserProfile
	PasswordHash string
	GroupID      model.ID
}

// Options configure a backend. Zero values are fine for tests.
type Options struct {
	Log *zap.Logger

	// Key signs the JWTs; empty means a random per-process key.
	Key       []byte
	AccessTTL time.Duration
	Hash      crypto.Params
}

// Call records a request seen by the server.
type Call struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// Server holds the remote state.
type Server struct {
	// StringIDs makes login responses carry the user id as a string.
	StringIDs bool

	log    *zap.Logger
	tokens *issuer
	hash   crypto.Params
	now    func() time.Time

	mu     sync.Mutex
	users  map[model.ID]*User
	groups map[model.ID]*model.Group
	events map[model.ID][]model.Event
	faults map[string]int
	calls  []Call
	nextID model.ID
	srv    *httptest.Server
}

// NewBackend builds an empty backend without listening anywhere; serve Router.
func NewBackend(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.Hash.KeyLen == 0 {
		opts.Hash = crypto.TestParams
	}
	return &Server{
		log:    opts.Log,
		tokens: newIssuer(opts.Key, opts.AccessTTL),
		hash:   opts.Hash,
		now:    time.Now,
		users:  map[model.ID]*User{},
		groups: map[model.ID]*model.Group{},
		events: map[model.ID][]model.Event{},
		faults: map[string]int{},
		nextID: 100,
	}
}

// New starts a test server; call Close when done.
func New() *Server {
	s := NewBackend(Options{})
	s.srv = httptest.NewServer(s.Router())
	return s
}

// URL is the base URL of the test server.
func (s *Server) URL() string {
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Close stops the test server.
func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
	}
}

// AddUser stores an account and returns its id.
func (s *Server) AddUser(email, password, first, last string, role model.Role) model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, first, last, role)
}

func (s *Server) addUserLocked(email, password, first, last string, role model.Role) model.ID {
	hash, err := crypto.Encode(s.hash, password)
	if err != nil {
		// crypto/rand failing leaves nothing sensible to do
		panic(fmt.Sprintf("fakeremote: hash password: %v", err))
	}
	s.nextID++
	id := s.nextID
	s.users[id] = &User{
		PasswordHash: hash,
		Profile: model.UserProfile{
			ID: id, Email: email, FirstName: first, LastName: last,
			FullName: strings.TrimSpace(first + " " + last), Role: role,
		},
	}
	return id
}

// AddGroup stores a group led by leader (0 for none) with the given members.
func (s *Server) AddGroup(name string, leader model.ID, members ...model.ID) model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	g := &model.Group{ID: s.nextID, Name: name, Members: []model.UserSummary{}}
	if u, ok := s.users[leader]; ok {
		sum := summary(u)
		g.Leader = &sum
		u.GroupID = g.ID
	}
	for _, m := range members {
		if u, ok := s.users[m]; ok {
			g.Members = append(g.Members, summary(u))
			u.GroupID = g.ID
		}
	}
	s.groups[g.ID] = g
	return g.ID
}

// AddEvent stores an event for a group and returns its id.
func (s *Server) AddEvent(groupID model.ID, ev model.Event) model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	ev.ID = &id
	ev.Group = groupID
	s.events[groupID] = append(s.events[groupID], ev)
	return id
}

// Events returns a copy of the stored events of a group.
func (s *Server) Events(groupID model.ID) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events[groupID]...)
}

// Group returns a copy of a stored group.
func (s *Server) Group(id model.ID) (model.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return model.Group{}, false
	}
	return *g, true
}

// Fail makes the next call to the named operation answer with status.
// Status 0 drops the connection.
func (s *Server) Fail(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = status
}

// Calls returns the recorded requests.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts recorded requests matching method and path.
func (s *Server) CountCalls(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Token issues an access token for a user without going through login.
func (s *Server) Token(id model.ID) string {
	tok, err := s.tokens.issue(id, kindAccess)
	if err != nil {
		panic(fmt.Sprintf("fakeremote: sign token: %v", err))
	}
	return tok
}

func summary(u *User) model.UserSummary {
	return model.UserSummary{
		ID: u.Profile.ID, Username: u.Profile.Username, Email: u.Profile.Email,
		FirstName: u.Profile.FirstName, LastName: u.Profile.LastName,
		FullName: u.Profile.FullName, Role: u.Profile.Role,
	}
}

// Router builds the chi routes of the remote API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log), Logging(s.log), s.record)

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/api/user/profile", s.handleProfile)
		r.Patch("/api/user/profile", s.handlePatchProfile)
		r.Get("/api/user/your-group", s.handleYourGroup)
		r.Get("/api/user/available-students", s.handleAvailable)
		r.Get("/api/user/groups/{id}", s.handleGroup)
		r.Patch("/api/user/groups/{id}", s.handlePatchGroup)
		r.Get("/api/user/groups/{id}/events", s.handleEvents)
		r.Post("/api/user/groups/{id}/events", s.handleCreateEvent)
		r.Patch("/api/user/groups/{id}/events/{eventId}", s.handlePatchEvent)
		r.Delete("/api/user/groups/{id}/events/{eventId}", s.handleDeleteEvent)
	})
	return r
}

type userKey struct{}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			dec := json.NewDecoder(r.Body)
			var raw json.RawMessage
			if dec.Decode(&raw) == nil {
				body = raw
			}
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: string(body)})
		s.mu.Unlock()
		r.Body = http.NoBody
		if len(body) > 0 {
			r = r.WithContext(withBody(r.Context(), body))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.authenticate(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), id)))
	})
}

func (s *Server) authenticate(r *http.Request) (model.ID, error) {
	tok, err := bearerToken(r)
	if err != nil {
		return 0, err
	}
	id, err := s.tokens.verify(tok, kindAccess)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	_, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("user %s is gone", id)
	}
	return id, nil
}

// fault answers with an injected failure if one is pending for op.
func (s *Server) fault(w http.ResponseWriter, op string) bool {
	s.mu.Lock()
	status, ok := s.faults[op]
	delete(s.faults, op)
	s.mu.Unlock()
	if !ok {
		return false
	}
	if status == 0 {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return true
			}
		}
		status = http.StatusBadGateway
	}
	writeJSON(w, status, envelope(map[string]any{"errors": []string{"injected failure"}}, "injected"))
	return true
}

func envelope(data any, msg any) map[string]any {
	return map[string]any{"data": data, "message": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errors any) {
	writeJSON(w, status, envelope(map[string]any{"errors": errors}, nil))
}

func decode(r *http.Request, v any) error {
	b := bodyFrom(r.Context())
	if len(b) == 0 {
		return fmt.Errorf("empty body")
	}
	return json.Unmarshal(b, v)
}

func pathID(r *http.Request, key string) (model.ID, bool) {
	id, err := model.ParseID(chi.URLParam(r, key))
	return id, err == nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "login") {
		return
	}
	var in struct{ Email, Password string }
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, []string{"Invalid body"})
		return
	}
	s.mu.Lock()
	var match *User
	for _, u := range s.users {
		if u.Profile.Email == in.Email {
			match = u
			break
		}
	}
	stringIDs := s.StringIDs
	s.mu.Unlock()

	if match == nil {
		writeError(w, http.StatusUnauthorized, []string{"Invalid credentials"})
		return
	}
	if ok, err := crypto.Verify(match.PasswordHash, in.Password); err != nil || !ok {
		writeError(w, http.StatusUnauthorized, []string{"Invalid credentials"})
		return
	}
	id := match.Profile.ID
	access, err := s.tokens.issue(id, kindAccess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, []string{"token"})
		return
	}
	refresh, err := s.tokens.issue(id, kindRefresh)
	if err != nil {
		writeError(w, http.StatusInternalServerError, []string{"token"})
		return
	}
	var uid any = int64(id)
	if stringIDs {
		uid = id.String()
	}
	writeJSON(w, http.StatusOK, envelope(map[string]any{"access": access, "refresh": refresh, "id": uid}, nil))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "register") {
		return
	}
	var in struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, []string{"Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs [][]string
	for _, u := range s.users {
		if u.Profile.Email == in.Email {
			errs = append(errs, []string{"User with this email already exists."})
		}
	}
	if len(in.Password) < 4 {
		errs = append(errs, []string{"Password is too short.", "Password is too common."})
	}
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs)
		return
	}
	s.addUserLocked(in.Email, in.Password, in.FirstName, in.LastName, model.RoleStudent)
	writeJSON(w, http.StatusCreated, envelope(nil, "User created"))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "profile") {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userFrom(r.Context())]
	writeJSON(w, http.StatusOK, envelope(s.profileLocked(u), nil))
}

func (s *Server) profileLocked(u *User) model.UserProfile {
	p := u.Profile
	if g, ok := s.groups[u.GroupID]; ok {
		cp := *g
		p.Group = &cp
	}
	return p
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "profile.update") {
		return
	}
	var in model.ProfileUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, []string{"Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userFrom(r.Context())]
	u.Profile.Username = in.Username
	u.Profile.FirstName = in.FirstName
	u.Profile.LastName = in.LastName
	u.Profile.FullName = strings.TrimSpace(in.FirstName + " " + in.LastName)
	writeJSON(w, http.StatusOK, envelope(s.profileLocked(u), nil))
}

func (s *Server) handleYourGroup(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "your-group") {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userFrom(r.Context())]
	g, ok := s.groups[u.GroupID]
	if !ok {
		writeError(w, http.StatusNotFound, []string{"You are not in a group"})
		return
	}
	writeJSON(w, http.StatusOK, envelope(g, nil))
}

func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "available-students") {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.UserSummary{}
	for _, u := range s.users {
		if u.GroupID == 0 && u.Profile.Role == model.RoleStudent {
			out = append(out, summary(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, envelope(out, nil))
}

func (s *Server) groupFor(w http.ResponseWriter, r *http.Request) (*model.Group, bool) {
	id, ok := pathID(r, "id")
	g, found := s.groups[id]
	if !ok || !found {
		writeError(w, http.StatusNotFound, "Group not found")
		return nil, false
	}
	return g, true
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "group") {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.groupFor(w, r); ok {
		writeJSON(w, http.StatusOK, envelope(g, nil))
	}
}

func isLeader(g *model.Group, uid model.ID) bool {
	return g.Leader != nil && g.Leader.ID == uid
}

func (s *Server) handlePatchGroup(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "group.update") {
		return
	}
	var in struct {
		Students []model.ID `json:"students"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, []string{"Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groupFor(w, r)
	if !ok {
		return
	}
	if !isLeader(g, userFrom(r.Context())) {
		writeJSON(w, http.StatusForbidden, map[string]any{"detail": "You do not have permission to perform this action."})
		return
	}
	have := map[model.ID]bool{}
	for _, m := range g.Members {
		have[m.ID] = true
	}
	for _, id := range in.Students {
		u, ok := s.users[id]
		if !ok {
			writeError(w, http.StatusBadRequest, []string{"Unknown student"})
			return
		}
		if !have[id] {
			g.Members = append(g.Members, summary(u))
			u.GroupID = g.ID
			have[id] = true
		}
	}
	writeJSON(w, http.StatusOK, envelope(g, nil))
}

// wireEvent renders an event with its group nested, like the real service.
func wireEvent(ev model.Event, g *model.Group) map[string]any {
	return map[string]any{
		"id": ev.ID, "name": ev.Name, "url": ev.URL, "date": ev.Date, "time": ev.Time,
		"weekday": ev.Weekday, "recurring": ev.Recurring, "recurring_until": ev.RecurringUntil,
		"is_active": ev.IsActive, "group": g,
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "events") {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groupFor(w, r)
	if !ok {
		return
	}
	out := []map[string]any{}
	for _, ev := range schedule(s.events[g.ID], s.now()) {
		out = append(out, wireEvent(ev, g))
	}
	writeJSON(w, http.StatusOK, envelope(out, nil))
}

// schedule is the event list as the service publishes it: active events only,
// each recurring event with an end date followed by weekly copies sharing its
// id, nothing before today, ordered by date then time.
func schedule(events []model.Event, now time.Time) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if !ev.IsActive {
			continue
		}
		out = append(out, ev)
		if !ev.Recurring || ev.RecurringUntil == nil {
			continue
		}
		start, err := time.Parse(recurrence.DateLayout, ev.Date)
		if err != nil {
			continue
		}
		until, err := time.Parse(recurrence.DateLayout, *ev.RecurringUntil)
		if err != nil {
			continue
		}
		for d := start.AddDate(0, 0, 7); !d.After(until); d = d.AddDate(0, 0, 7) {
			cp := ev
			cp.Date = d.Format(recurrence.DateLayout)
			wd := (int(d.Weekday()) + 6) % 7 // Monday is 0
			cp.Weekday = &wd
			out = append(out, cp)
		}
	}

	today := now.Format(recurrence.DateLayout)
	kept := out[:0]
	for _, ev := range out {
		if ev.Date >= today {
			kept = append(kept, ev)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Date != kept[j].Date {
			return kept[i].Date < kept[j].Date
		}
		return kept[i].Time < kept[j].Time
	})
	return kept
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "events.create") {
		return
	}
	var in model.EventPayload
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, []string{"Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groupFor(w, r)
	if !ok {
		return
	}
	if !isLeader(g, userFrom(r.Context())) {
		writeJSON(w, http.StatusForbidden, map[string]any{"detail": "forbidden"})
		return
	}
	s.nextID++
	id := s.nextID
	ev := model.Event{
		ID: &id, Name: in.Name, URL: in.URL, Date: in.Date, Time: in.Time, Weekday: in.Weekday,
		Recurring: in.Recurring, RecurringUntil: in.RecurringUntil, IsActive: in.IsActive, Group: g.ID,
	}
	s.events[g.ID] = append(s.events[g.ID], ev)
	writeJSON(w, http.StatusOK, envelope(wireEvent(ev, g), nil))
}

func (s *Server) eventIndex(groupID model.ID, r *http.Request) int {
	eid, ok := pathID(r, "eventId")
	if !ok {
		return -1
	}
	for i, ev := range s.events[groupID] {
		if ev.ID != nil && *ev.ID == eid {
			return i
		}
	}
	return -1
}

func (s *Server) handlePatchEvent(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "events.update") {
		return
	}
	var in model.EventPayload
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, []string{"Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groupFor(w, r)
	if !ok {
		return
	}
	if !isLeader(g, userFrom(r.Context())) {
		writeJSON(w, http.StatusForbidden, map[string]any{"detail": "forbidden"})
		return
	}
	i := s.eventIndex(g.ID, r)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	ev := &s.events[g.ID][i]
	ev.Name, ev.URL, ev.Date, ev.Time = in.Name, in.URL, in.Date, in.Time
	ev.Recurring, ev.RecurringUntil, ev.IsActive = in.Recurring, in.RecurringUntil, in.IsActive
	writeJSON(w, http.StatusOK, envelope(wireEvent(*ev, g), nil))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if s.fault(w, "events.delete") {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groupFor(w, r)
	if !ok {
		return
	}
	if !isLeader(g, userFrom(r.Context())) {
		writeJSON(w, http.StatusForbidden, map[string]any{"detail": "forbidden"})
		return
	}
	i := s.eventIndex(g.ID, r)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	s.events[g.ID] = append(s.events[g.ID][:i], s.events[g.ID][i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}
