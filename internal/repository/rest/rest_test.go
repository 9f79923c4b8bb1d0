package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/fakeremote"
	"github.com/and161185/starostahub/internal/gateway"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/repository"
	"github.com/and161185/starostahub/internal/session"
)

type fixture struct {
	remote *fakeremote.Server
	store  *session.Store
	gw     *gateway.Gateway
	leader model.ID
	member model.ID
	group  model.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	remote := fakeremote.New()
	t.Cleanup(remote.Close)
	f := &fixture{remote: remote, store: session.NewStore(nil)}
	f.leader = remote.AddUser("lead@uni.ua", "secret", "Olena", "Koval", model.RoleStarosta)
	f.member = remote.AddUser("stud@uni.ua", "secret", "Ivan", "Petrenko", model.RoleStudent)
	f.group = remote.AddGroup("KN-21", f.leader, f.member)
	f.gw = gateway.New(remote.URL(), f.store, zaptest.NewLogger(t))
	return f
}

func (f *fixture) signIn(t *testing.T, id model.ID) {
	t.Helper()
	require.NoError(t, f.store.Set(model.Identity{UserID: id, AccessToken: f.remote.Token(id)}))
}

func TestAuthRepo_Login(t *testing.T) {
	f := newFixture(t)
	repo := NewAuthRepo(f.gw)

	res, err := repo.Login(context.Background(), "lead@uni.ua", "secret")
	require.NoError(t, err)
	assert.Equal(t, f.leader, res.UserID)
	assert.NotEmpty(t, res.Access)
	assert.NotEmpty(t, res.Refresh)

	_, err = repo.Login(context.Background(), "lead@uni.ua", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestAuthRepo_LoginStringID(t *testing.T) {
	f := newFixture(t)
	f.remote.StringIDs = true

	res, err := NewAuthRepo(f.gw).Login(context.Background(), "stud@uni.ua", "secret")
	require.NoError(t, err)
	assert.Equal(t, f.member, res.UserID)
}

func TestAuthRepo_Register(t *testing.T) {
	f := newFixture(t)
	repo := NewAuthRepo(f.gw)

	status, err := repo.Register(context.Background(), repository.Registration{
		Email: "new@uni.ua", Password: "longpassword", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	status, err = repo.Register(context.Background(), repository.Registration{
		Email: "new@uni.ua", Password: "x", FirstName: "A", LastName: "B",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestUserRepo_Profile(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)
	repo := NewUserRepo(f.gw)

	p, err := repo.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stud@uni.ua", p.Email)
	require.NotNil(t, p.Group)
	assert.Equal(t, f.group, p.Group.ID)

	p, err = repo.UpdateProfile(context.Background(), model.ProfileUpdate{Username: "ivan", FirstName: "Іван", LastName: "Петренко"})
	require.NoError(t, err)
	assert.Equal(t, "ivan", p.Username)
	assert.Equal(t, "Іван Петренко", p.FullName)
}

func TestUserRepo_ProfileWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, err := NewUserRepo(f.gw).Profile(context.Background())
	require.Error(t, err)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	calls := f.remote.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)
}

func TestUserRepo_AvailableStudents(t *testing.T) {
	f := newFixture(t)
	free := f.remote.AddUser("free@uni.ua", "secret", "Free", "One", model.RoleStudent)
	f.signIn(t, f.leader)

	out, err := NewUserRepo(f.gw).AvailableStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, free, out[0].ID)
}

func TestGroupRepo(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.leader)
	repo := NewGroupRepo(f.gw)
	ctx := context.Background()

	g, err := repo.YourGroup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KN-21", g.Name)
	require.NotNil(t, g.Leader)
	assert.Equal(t, f.leader, g.Leader.ID)

	g, err = repo.Get(ctx, f.group)
	require.NoError(t, err)
	assert.Equal(t, []model.ID{f.member}, g.MemberIDs())

	_, err = repo.Get(ctx, 9999)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	free := f.remote.AddUser("free@uni.ua", "secret", "Free", "One", model.RoleStudent)
	g, err = repo.SetStudents(ctx, f.group, []model.ID{f.member, free})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{f.member, free}, g.MemberIDs())
}

func TestGroupRepo_SetStudentsNeverSendsNull(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.leader)

	_, err := NewGroupRepo(f.gw).SetStudents(context.Background(), f.group, nil)
	require.NoError(t, err)

	calls := f.remote.Calls()
	last := calls[len(calls)-1]
	assert.JSONEq(t, `{"students":[]}`, last.Body)
}

func TestGroupRepo_SetStudentsForbidden(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)

	_, err := NewGroupRepo(f.gw).SetStudents(context.Background(), f.group, []model.ID{f.member})
	require.Error(t, err)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}

func TestEventRepo_CRUD(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.leader)
	repo := NewEventRepo(f.gw)
	ctx := context.Background()

	created, err := repo.Create(ctx, f.group, model.EventPayload{
		Name: "Лекція", URL: "https://meet.example/a", Date: "2030-09-01", Time: "10:00", IsActive: true, Group: f.group,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, f.group, created.Group)

	list, err := repo.List(ctx, f.group)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Лекція", list[0].Name)

	updated, err := repo.Update(ctx, f.group, *created.ID, model.EventPayload{
		Name: "Семінар", Date: "2030-09-02", Time: "12:00", Group: f.group,
	})
	require.NoError(t, err)
	assert.Equal(t, "Семінар", updated.Name)
	assert.Equal(t, *created.ID, *updated.ID)

	require.NoError(t, repo.Delete(ctx, f.group, *created.ID))
	assert.Empty(t, f.remote.Events(f.group))

	err = repo.Delete(ctx, f.group, *created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEventRepo_ListShapeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"not": "a list"}})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, nil, zaptest.NewLogger(t))
	_, err := NewEventRepo(gw).List(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindShape, errs.KindOf(err))
}

func TestEventRepo_TransportFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.leader)
	f.remote.Fail("events", 0)

	_, err := NewEventRepo(f.gw).List(context.Background(), f.group)
	require.Error(t, err)
	assert.Equal(t, errs.KindTransport, errs.KindOf(err))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/api/user/groups/3", groupPath(3))
	assert.Equal(t, "/api/user/groups/3/events", eventsPath(3))
	assert.Equal(t, "/api/user/groups/3/events/12", eventPath(3, 12))
}
