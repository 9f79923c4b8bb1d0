// Package role derives what the current user may do with a group.
package role

import "github.com/and161185/starostahub/internal/model"

// IsLeader reports whether userID leads g. A group without a leader has none.
func IsLeader(userID model.ID, g *model.Group) bool {
	return userID != 0 && g != nil && g.Leader != nil && g.Leader.ID == userID
}

// Capabilities are the mutation affordances of a group screen.
type Capabilities struct {
	Leader          bool
	CanAddMembers   bool
	CanManageEvents bool
}

// For computes the capabilities of userID on g.
func For(userID model.ID, g *model.Group) Capabilities {
	l := IsLeader(userID, g)
	return Capabilities{Leader: l, CanAddMembers: l, CanManageEvents: l}
}
