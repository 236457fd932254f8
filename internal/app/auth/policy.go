package auth

import (
	"fmt"

	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

// Action names one guarded operation. Every mutating route declares its
// action and the policy table below decides which roles may attempt it;
// role membership is checked literally, so admin passes only where the
// table lists it.
type Action string

const (
	ActionBootcampPublish     Action = "bootcamp:publish"
	ActionBootcampManage      Action = "bootcamp:manage"
	ActionParticipantRegister Action = "bootcamp:register-participant"
	ActionCourseManage        Action = "course:manage"
	ActionReviewWrite         Action = "review:write"
	ActionUserAdminister      Action = "user:administer"
)

// policy is the closed authorization table. Publishing and participant
// registration are deliberately independent rules: a publisher may own a
// bootcamp while only admins register participants.
var policy = map[Action][]models.RoleType{
	ActionBootcampPublish:     {models.RolePublisher, models.RoleAdmin},
	ActionBootcampManage:      {models.RolePublisher, models.RoleAdmin},
	ActionParticipantRegister: {models.RoleAdmin},
	ActionCourseManage:        {models.RolePublisher, models.RoleAdmin},
	ActionReviewWrite:         {models.RoleUser, models.RoleAdmin},
	ActionUserAdminister:      {models.RoleAdmin},
}

// Identity is the resolved caller threaded explicitly through each call;
// there is no ambient per-request identity state.
type Identity struct {
	UserID int64
	Role   models.RoleType
}

// Authorize checks the caller's role against the action's allowed set.
// Failure is Forbidden, never Unauthenticated: the identity is already
// known at this point.
func Authorize(id Identity, action Action) error {
	allowed, ok := policy[action]
	if !ok {
		return apperrors.NewForbiddenError(fmt.Sprintf("no policy defined for action %s", action))
	}
	for _, role := range allowed {
		if id.Role == role {
			return nil
		}
	}
	return apperrors.NewForbiddenError(
		fmt.Sprintf("user %d with role %s is not authorized for %s", id.UserID, id.Role, action))
}

// AuthorizeOwnership grants mutation of a resource to its recorded owner
// or to admins, and is evaluated only after Authorize has passed.
func AuthorizeOwnership(id Identity, resourceOwnerID int64) error {
	if id.Role == models.RoleAdmin {
		return nil
	}
	if id.UserID == resourceOwnerID {
		return nil
	}
	return apperrors.NewForbiddenError(
		fmt.Sprintf("user %d is not authorized to modify this resource", id.UserID))
}

// AllowedRoles exposes the configured role set for an action, mainly for
// diagnostics and tests.
func AllowedRoles(action Action) []models.RoleType {
	return policy[action]
}
