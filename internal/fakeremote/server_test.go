package fakeremote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/starostahub/internal/model"
)

func do(t *testing.T, s *Server, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.URL()+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestEventMutations_LeaderOnly(t *testing.T) {
	s := New()
	defer s.Close()
	leader := s.AddUser("lead@uni.ua", "secret", "Olena", "Koval", model.RoleStarosta)
	member := s.AddUser("stud@uni.ua", "secret", "Ivan", "Petrenko", model.RoleStudent)
	group := s.AddGroup("KN-21", leader, member)
	ev := s.AddEvent(group, model.Event{Name: "Math", Date: "2030-09-02", Time: "10:00", IsActive: true})

	path := fmt.Sprintf("/api/user/groups/%d/events/%d", group, ev)
	body := `{"name":"Physics","date":"2030-09-02","time":"10:00","is_active":true}`

	resp := do(t, s, http.MethodPatch, path, s.Token(member), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = do(t, s, http.MethodDelete, path, s.Token(member), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Len(t, s.Events(group), 1)
	assert.Equal(t, "Math", s.Events(group)[0].Name)

	resp = do(t, s, http.MethodPatch, path, s.Token(leader), body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Physics", s.Events(group)[0].Name)

	resp = do(t, s, http.MethodDelete, path, s.Token(leader), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, s.Events(group))
}

func TestLogin_IssuesVerifiableTokens(t *testing.T) {
	s := New()
	defer s.Close()
	id := s.AddUser("lead@uni.ua", "secret", "Olena", "Koval", model.RoleStarosta)

	resp := do(t, s, http.MethodPost, "/api/auth/login", "", `{"email":"lead@uni.ua","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, s, http.MethodPost, "/api/auth/login", "", `{"email":"lead@uni.ua","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, s, http.MethodGet, "/api/user/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = do(t, s, http.MethodGet, "/api/user/profile", s.Token(id), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSchedule_ListsLikeTheService(t *testing.T) {
	until := "2030-09-30"
	open := "2030-12-31"
	id := model.ID(4)
	events := []model.Event{
		{ID: &id, Name: "Math", Date: "2030-09-02", Time: "10:00", Recurring: true, RecurringUntil: &until, IsActive: true},
		{Name: "Hidden", Date: "2030-09-03", Time: "10:00"},
		{Name: "Early", Date: "2030-09-16", Time: "08:30", IsActive: true},
		{Name: "Open", Date: "2030-09-20", Time: "12:00", Recurring: true, IsActive: true},
		{Name: "Gone", Date: "2030-09-01", Time: "09:00", IsActive: true},
		{Name: "Weekly", Date: "2030-09-17", Time: "09:00", Recurring: true, RecurringUntil: &open, IsActive: false},
	}
	now := time.Date(2030, 9, 9, 15, 0, 0, 0, time.UTC)

	var got []string
	for _, ev := range schedule(events, now) {
		got = append(got, ev.Date+" "+ev.Time+" "+ev.Name)
	}
	assert.Equal(t, []string{
		"2030-09-09 10:00 Math",
		"2030-09-16 08:30 Early",
		"2030-09-16 10:00 Math",
		"2030-09-20 12:00 Open",
		"2030-09-23 10:00 Math",
		"2030-09-30 10:00 Math",
	}, got)

	list := schedule(events, now)
	assert.Equal(t, id, *list[0].ID, "copies keep the event id")
	require.NotNil(t, list[0].Weekday)
	assert.Equal(t, 0, *list[0].Weekday, "Monday")
	assert.Len(t, events, 6, "stored events untouched")
	assert.Equal(t, "2030-09-02", events[0].Date)
}

func TestEvents_ExpandedOverHTTP(t *testing.T) {
	s := New()
	defer s.Close()
	leader := s.AddUser("lead@uni.ua", "secret", "Olena", "Koval", model.RoleStarosta)
	group := s.AddGroup("KN-21", leader)
	until := "2030-09-16"
	s.AddEvent(group, model.Event{Name: "Math", Date: "2030-09-02", Time: "10:00", Recurring: true, RecurringUntil: &until, IsActive: true})
	s.AddEvent(group, model.Event{Name: "Hidden", Date: "2030-09-03", Time: "10:00"})

	resp := do(t, s, http.MethodGet, fmt.Sprintf("/api/user/groups/%d/events", group), s.Token(leader), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data []struct {
			ID   model.ID `json:"id"`
			Date string   `json:"date"`
			Name string   `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 3)
	for i, want := range []string{"2030-09-02", "2030-09-09", "2030-09-16"} {
		assert.Equal(t, want, body.Data[i].Date)
		assert.Equal(t, "Math", body.Data[i].Name)
		assert.Equal(t, body.Data[0].ID, body.Data[i].ID)
	}
}
