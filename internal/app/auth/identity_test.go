package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/tenant"
)

type fakeProfiles struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return p, nil
}

func newTestResolver(profiles ...*models.Profile) *Resolver {
	byID := make(map[string]*models.Profile)
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return NewResolver(&fakeProfiles{profiles: byID}, tenant.NewGuard(nil, zerolog.Nop()))
}

func TestResolve_HappyPath(t *testing.T) {
	r := newTestResolver(&models.Profile{
		ID:            "u1",
		Email:         "ada@stanford.edu",
		Role:          "student",
		CollegeDomain: "Stanford.EDU",
		IsActive:      true,
	})

	id, err := r.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Role != permissions.RoleStudent {
		t.Errorf("role = %q, want student", id.Role)
	}
	if id.CollegeDomain != "stanford.edu" {
		t.Errorf("domain = %q, want normalized stanford.edu", id.CollegeDomain)
	}
}

func TestResolve_EmptyUserID(t *testing.T) {
	r := newTestResolver()
	if _, err := r.Resolve(context.Background(), ""); !errors.Is(err, apperrors.ErrAuthenticationRequired) {
		t.Errorf("got %v, want ErrAuthenticationRequired", err)
	}
}

func TestResolve_UnknownUser(t *testing.T) {
	r := newTestResolver()
	if _, err := r.Resolve(context.Background(), "missing"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestResolve_DeactivatedAccount(t *testing.T) {
	r := newTestResolver(&models.Profile{
		ID: "u1", Role: "student", CollegeDomain: "mit.edu", IsActive: false,
	})
	if _, err := r.Resolve(context.Background(), "u1"); !errors.Is(err, apperrors.ErrAccountDeactivated) {
		t.Errorf("got %v, want ErrAccountDeactivated", err)
	}
}

func TestResolve_MissingDomainIsOnboardingIncomplete(t *testing.T) {
	r := newTestResolver(&models.Profile{
		ID: "u1", Role: "student", CollegeDomain: "", IsActive: true,
	})
	if _, err := r.Resolve(context.Background(), "u1"); !errors.Is(err, apperrors.ErrOnboardingIncomplete) {
		t.Errorf("got %v, want ErrOnboardingIncomplete", err)
	}
}

func TestResolve_LegacyRoleNormalized(t *testing.T) {
	r := newTestResolver(&models.Profile{
		ID: "u1", Role: "Club", CollegeDomain: "iitb.ac.in", IsActive: true,
	})
	id, err := r.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Role != permissions.RoleOrganization {
		t.Errorf("role = %q, want organization", id.Role)
	}
}

func TestResolve_UnknownRoleFallsBackToClassification(t *testing.T) {
	gradYear := 2015
	r := newTestResolver(&models.Profile{
		ID: "u1", Role: "superuser", CollegeDomain: "mit.edu", IsActive: true,
		GraduationYear: &gradYear,
	})
	id, err := r.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Role != permissions.RoleAlumni {
		t.Errorf("role = %q, want alumni from past graduation year", id.Role)
	}
}
