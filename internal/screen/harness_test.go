package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/starostahub/internal/fakeremote"
	"github.com/and161185/starostahub/internal/gateway"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/recurrence"
	"github.com/and161185/starostahub/internal/repository/rest"
	"github.com/and161185/starostahub/internal/service"
	"github.com/and161185/starostahub/internal/session"
)

// harness wires the real stack against an in-memory remote.
type harness struct {
	remote  *fakeremote.Server
	store   *session.Store
	cat     *i18n.Catalog
	log     *zap.Logger
	profile *service.ProfileServiceImpl
	roster  *service.RosterServiceImpl
	sched   *service.ScheduleServiceImpl

	leader, member, free model.ID
	group                model.ID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	remote := fakeremote.New()
	t.Cleanup(remote.Close)

	h := &harness{remote: remote, store: session.NewStore(nil), cat: i18n.MustNew(i18n.Ukrainian), log: zaptest.NewLogger(t)}
	h.leader = remote.AddUser("lead@uni.ua", "secret", "Olena", "Koval", model.RoleStarosta)
	h.member = remote.AddUser("stud@uni.ua", "secret", "Ivan", "Petrenko", model.RoleStudent)
	h.free = remote.AddUser("free@uni.ua", "secret", "Taras", "Bondar", model.RoleStudent)
	h.group = remote.AddGroup("KN-21", h.leader, h.member)

	gw := gateway.New(remote.URL(), h.store, h.log)
	users := rest.NewUserRepo(gw)
	h.profile = service.NewProfileService(users)
	h.roster = service.NewRosterService(rest.NewGroupRepo(gw), users)
	h.sched = service.NewScheduleService(rest.NewEventRepo(gw), recurrence.Normalizer{Loc: time.UTC})
	return h
}

func (h *harness) signIn(t *testing.T, id model.ID) {
	t.Helper()
	require.NoError(t, h.store.Set(model.Identity{UserID: id, AccessToken: h.remote.Token(id)}))
}

func (h *harness) eventsPath() string {
	return "/api/user/groups/" + h.group.String() + "/events"
}
