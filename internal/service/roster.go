package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/model"
	"github.com/and161185/starostahub/internal/repository"
	"github.com/and161185/starostahub/internal/role"
)

// RosterService defines group loading and membership changes.
type RosterService interface {
	// Group loads a group by id, or the caller's own group when id is 0.
	Group(ctx context.Context, id model.ID) (*model.Group, error)
	// Pool lists students that belong to no group.
	Pool(ctx context.Context) ([]model.UserSummary, error)
	// AddMembers submits the union of g's members and selected to groupID
	// (g.ID when groupID is 0). Leader only.
	AddMembers(ctx context.Context, userID, groupID model.ID, g *model.Group, selected []model.ID) (*model.Group, error)
}

type RosterServiceImpl struct {
	groups repository.GroupRepository
	users  repository.UserRepository
}

// NewRosterService constructs RosterService.
func NewRosterService(groups repository.GroupRepository, users repository.UserRepository) *RosterServiceImpl {
	return &RosterServiceImpl{groups: groups, users: users}
}

// Group fetches the group fresh on every call.
func (s *RosterServiceImpl) Group(ctx context.Context, id model.ID) (*model.Group, error) {
	if id < 0 {
		return nil, fmt.Errorf("group id %d: %w", id, errs.ErrNotFound)
	}
	if id == 0 {
		return s.groups.YourGroup(ctx)
	}
	return s.groups.Get(ctx, id)
}

// Pool lists the available students.
func (s *RosterServiceImpl) Pool(ctx context.Context) ([]model.UserSummary, error) {
	return s.users.AvailableStudents(ctx)
}

// AddMembers never removes anyone: the submitted set always contains every current member.
func (s *RosterServiceImpl) AddMembers(ctx context.Context, userID, groupID model.ID, g *model.Group, selected []model.ID) (*model.Group, error) {
	if g == nil {
		return nil, errors.New("validation: nil group")
	}
	if !role.IsLeader(userID, g) {
		return nil, errs.ErrForbidden
	}
	target, err := Target(groupID, g)
	if err != nil {
		return nil, err
	}
	return s.groups.SetStudents(ctx, target, Union(g.MemberIDs(), selected))
}

// Target is the group a mutation is addressed to: the id the screen was
// opened for, or the fetched group's own id for the user's group (0).
// Group bodies need not carry an id.
func Target(groupID model.ID, g *model.Group) (model.ID, error) {
	if groupID == 0 && g != nil {
		groupID = g.ID
	}
	if groupID <= 0 {
		return 0, fmt.Errorf("group id %d: %w", groupID, errs.ErrNotFound)
	}
	return groupID, nil
}

// Union appends the ids of selected missing from existing, keeping first-seen order.
func Union(existing, selected []model.ID) []model.ID {
	out := make([]model.ID, 0, len(existing)+len(selected))
	seen := make(map[model.ID]struct{}, cap(out))
	for _, list := range [][]model.ID{existing, selected} {
		for _, id := range list {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
