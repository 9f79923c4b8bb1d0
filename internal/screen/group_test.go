package screen

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/role"
)

func TestGroupScreen_MemberIsReadOnly(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.member)
	s := NewGroupScreen(h.roster, h.member, h.group, h.cat, h.log)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, role.Capabilities{}, s.Capabilities())
	assert.ErrorIs(t, s.OpenSelection(context.Background()), errs.ErrForbidden)
	assert.ErrorIs(t, s.SubmitSelection(context.Background()), errs.ErrForbidden)
	assert.Zero(t, h.remote.CountCalls(http.MethodGet, "/api/user/available-students"))
}

func TestGroupScreen_NullLeader(t *testing.T) {
	h := newHarness(t)
	gid := h.remote.AddGroup("Orphans", 0, h.free)
	h.signIn(t, h.free)
	s := NewGroupScreen(h.roster, h.free, gid, h.cat, h.log)

	require.NoError(t, s.Load(context.Background()))
	g := s.Snapshot().Data
	assert.Nil(t, g.Leader)
	assert.False(t, role.IsLeader(h.free, g))
	assert.False(t, s.Capabilities().CanAddMembers)
}

func TestGroupScreen_OwnGroup(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.member)
	s := NewGroupScreen(h.roster, h.member, 0, h.cat, h.log)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, h.group, s.Snapshot().Data.ID)
	assert.Equal(t, 1, h.remote.CountCalls(http.MethodGet, "/api/user/your-group"))
}

func TestGroupScreen_LeaderAddsStudents(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.leader)
	s := NewGroupScreen(h.roster, h.leader, h.group, h.cat, h.log)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.True(t, s.Capabilities().CanAddMembers)

	require.NoError(t, s.OpenSelection(ctx))
	require.True(t, s.Selecting())
	pool := s.Pool()
	require.Len(t, pool, 1)
	assert.Equal(t, h.free, pool[0].ID)

	assert.True(t, s.Toggle(h.free))
	assert.True(t, s.Toggle(h.member), "already a member; the union removes the duplicate")
	assert.Equal(t, []model.ID{h.free, h.member}, s.Selected())

	require.NoError(t, s.SubmitSelection(ctx))
	assert.False(t, s.Selecting())
	assert.Empty(t, s.Selected())
	assert.Equal(t, []model.ID{h.member, h.free}, s.Snapshot().Data.MemberIDs())

	calls := h.remote.Calls()
	assert.JSONEq(t, `{"students":[`+h.member.String()+`,`+h.free.String()+`]}`, calls[len(calls)-1].Body)
}

func TestGroupScreen_ToggleWhileClosed(t *testing.T) {
	h := newHarness(t)
	s := NewGroupScreen(h.roster, h.leader, h.group, h.cat, h.log)
	assert.False(t, s.Toggle(5))
	assert.Empty(t, s.Selected())
}

func TestGroupScreen_ToggleOff(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.leader)
	s := NewGroupScreen(h.roster, h.leader, h.group, h.cat, h.log)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenSelection(context.Background()))

	s.Toggle(h.free)
	assert.False(t, s.Toggle(h.free))
	assert.Empty(t, s.Selected())

	s.CloseSelection()
	assert.False(t, s.Selecting())
}

func TestGroupScreen_PoolFailureLeavesPoolEmpty(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.leader)
	s := NewGroupScreen(h.roster, h.leader, h.group, h.cat, h.log)
	require.NoError(t, s.Load(context.Background()))

	h.remote.Fail("available-students", http.StatusInternalServerError)
	require.NoError(t, s.OpenSelection(context.Background()))
	assert.True(t, s.Selecting())
	assert.Empty(t, s.Pool())
}

func TestGroupScreen_SubmitFailureKeepsState(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.leader)
	s := NewGroupScreen(h.roster, h.leader, h.group, h.cat, h.log)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.OpenSelection(ctx))
	s.Toggle(h.free)

	h.remote.Fail("group.update", http.StatusBadGateway)
	err := s.SubmitSelection(ctx)
	require.Error(t, err)
	assert.Equal(t, "Не вдалося додати студентів до групи.", errs.Message(err))

	assert.True(t, s.Selecting())
	assert.Equal(t, []model.ID{h.free}, s.Selected())
	assert.Equal(t, []model.ID{h.member}, s.Snapshot().Data.MemberIDs())
}

func TestGroupScreen_LoadFailures(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, h.member)

	s := NewGroupScreen(h.roster, h.member, 4242, h.cat, h.log)
	require.Error(t, s.Load(context.Background()))
	assert.Equal(t, "Сталася помилка при завантаженні даних групи.", s.Snapshot().Message)
	assert.Equal(t, role.Capabilities{}, s.Capabilities())
}
