package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

func conn(status models.ConnectionStatus, updated time.Time) *models.Connection {
	return &models.Connection{
		ID:          "c1",
		RequesterID: "u1",
		ReceiverID:  "u2",
		Status:      status,
		UpdatedAt:   updated,
	}
}

func TestCanMessage_NoConnection(t *testing.T) {
	if err := CanMessage(permissions.RoleStudent, nil); !errors.Is(err, apperrors.ErrNotConnected) {
		t.Errorf("student without connection: got %v, want ErrNotConnected", err)
	}
}

func TestCanMessage_Accepted(t *testing.T) {
	c := conn(models.ConnectionAccepted, time.Now())
	if err := CanMessage(permissions.RoleStudent, c); err != nil {
		t.Errorf("student with accepted connection: got %v, want nil", err)
	}
}

func TestCanMessage_PendingDeniesStudent(t *testing.T) {
	c := conn(models.ConnectionPending, time.Now())
	if err := CanMessage(permissions.RoleStudent, c); !errors.Is(err, apperrors.ErrNotConnected) {
		t.Errorf("student with pending connection: got %v, want ErrNotConnected", err)
	}
}

func TestCanMessage_PrivilegedRolesWithoutConnection(t *testing.T) {
	for _, role := range []permissions.Role{
		permissions.RoleAlumni,
		permissions.RoleFaculty,
		permissions.RoleOrganization,
	} {
		if err := CanMessage(role, nil); err != nil {
			t.Errorf("%s without connection: got %v, want nil", role, err)
		}
	}
}

func TestCanMessage_BlockedDeniesEveryone(t *testing.T) {
	c := conn(models.ConnectionBlocked, time.Now())
	for _, role := range []permissions.Role{
		permissions.RoleStudent,
		permissions.RoleAlumni,
		permissions.RoleFaculty,
		permissions.RoleOrganization,
	} {
		if err := CanMessage(role, c); !errors.Is(err, apperrors.ErrBlocked) {
			t.Errorf("%s with blocked edge: got %v, want ErrBlocked", role, err)
		}
	}
}

func TestCanMessage_BlockedBeatsAcceptedHistory(t *testing.T) {
	// Only the latest row is passed in; a block that superseded an earlier
	// accepted edge must deny.
	c := conn(models.ConnectionBlocked, time.Now())
	if err := CanMessage(permissions.RoleFaculty, c); !errors.Is(err, apperrors.ErrBlocked) {
		t.Errorf("faculty with latest=blocked: got %v, want ErrBlocked", err)
	}
}
