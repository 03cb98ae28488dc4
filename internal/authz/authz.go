// Package authz decides whether a verified identity may perform an action.
// Decisions are pure: no I/O, no logging, no side effects.
package authz

import (
	"fmt"

	"tempest-reviews/internal/data/entity"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
)

// Identity is the verified caller taken from a session token.
type Identity struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == entity.RoleAdmin
}

type Action string

const (
	ActionCreateMovie  Action = "movie:create"
	ActionUpdateMovie  Action = "movie:update"
	ActionDeleteMovie  Action = "movie:delete"
	ActionCreateReview Action = "review:create"
	ActionUpdateReview Action = "review:update"
	ActionDeleteReview Action = "review:delete"
)

// IsOwnerOrAdmin is the single ownership predicate for review mutations.
// Either condition alone is sufficient.
func IsOwnerOrAdmin(identity *Identity, ownerID uuid.UUID) bool {
	if identity == nil {
		return false
	}
	return identity.IsAdmin() || (ownerID != uuid.Nil && identity.UserID == ownerID)
}

// CanPerform reports whether identity may perform action. ownerID is the owner of the
// target resource and only matters for review update/delete; a missing owner denies
// non-admins. Unknown actions are denied.
func CanPerform(identity *Identity, action Action, ownerID *uuid.UUID) bool {
	if identity == nil {
		return false
	}

	switch action {
	case ActionCreateMovie, ActionUpdateMovie, ActionDeleteMovie:
		return identity.IsAdmin()
	case ActionCreateReview:
		return true
	case ActionUpdateReview, ActionDeleteReview:
		if ownerID == nil {
			return identity.IsAdmin()
		}
		return IsOwnerOrAdmin(identity, *ownerID)
	default:
		return false
	}
}

// Authorize is CanPerform as an error, wrapping utils.ErrForbidden on denial.
func Authorize(identity *Identity, action Action, ownerID *uuid.UUID) error {
	if identity == nil {
		return utils.ErrInvalidToken
	}
	if !CanPerform(identity, action, ownerID) {
		return fmt.Errorf("%w: %s not permitted for role %s", utils.ErrForbidden, action, identity.Role)
	}
	return nil
}
