package auth

import (
	"errors"
	"testing"

	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		role    models.RoleType
		action  Action
		allowed bool
	}{
		{"publisher may publish", models.RolePublisher, ActionBootcampPublish, true},
		{"admin may publish", models.RoleAdmin, ActionBootcampPublish, true},
		{"user may not publish", models.RoleUser, ActionBootcampPublish, false},
		{"user may write reviews", models.RoleUser, ActionReviewWrite, true},
		{"publisher may not write reviews", models.RolePublisher, ActionReviewWrite, false},
		{"admin may write reviews", models.RoleAdmin, ActionReviewWrite, true},
		{"only admin registers participants", models.RolePublisher, ActionParticipantRegister, false},
		{"admin registers participants", models.RoleAdmin, ActionParticipantRegister, true},
		{"user does not administer users", models.RoleUser, ActionUserAdminister, false},
		{"admin administers users", models.RoleAdmin, ActionUserAdminister, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(Identity{UserID: 7, Role: tt.role}, tt.action)
			if tt.allowed && err != nil {
				t.Errorf("expected %s allowed for %s, got %v", tt.action, tt.role, err)
			}
			if !tt.allowed {
				if err == nil {
					t.Fatalf("expected %s denied for %s", tt.action, tt.role)
				}
				if !errors.Is(err, apperrors.ErrPermissionDenied) {
					t.Errorf("denial must map to permission denied, got %v", err)
				}
			}
		})
	}
}

func TestAuthorizeUnknownActionDenied(t *testing.T) {
	err := Authorize(Identity{UserID: 1, Role: models.RoleAdmin}, Action("nonexistent"))
	if err == nil {
		t.Fatal("unknown action must be denied")
	}
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied, got %v", err)
	}
}

func TestAuthorizeOwnership(t *testing.T) {
	tests := []struct {
		name    string
		ident   Identity
		ownerID int64
		allowed bool
	}{
		{"owner passes", Identity{UserID: 5, Role: models.RolePublisher}, 5, true},
		{"non-owner fails", Identity{UserID: 5, Role: models.RolePublisher}, 6, false},
		{"admin bypasses ownership", Identity{UserID: 5, Role: models.RoleAdmin}, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeOwnership(tt.ident, tt.ownerID)
			if tt.allowed && err != nil {
				t.Errorf("expected ownership granted, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Errorf("expected permission denied, got %v", err)
			}
		})
	}
}

func TestAllowedRolesClosedTable(t *testing.T) {
	roles := AllowedRoles(ActionParticipantRegister)
	if len(roles) != 1 || roles[0] != models.RoleAdmin {
		t.Errorf("participant registration should be admin only, got %v", roles)
	}
}
