package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/tenant"
)

// Identity is the resolved caller: who they are, which college they belong
// to, and what role gates their actions. Every request handler works from an
// Identity, never from raw claims.
type Identity struct {
	UserID        string
	Email         string
	Role          permissions.Role
	CollegeDomain string
}

// ProfileGetter is the slice of the profile repository the resolver needs.
type ProfileGetter interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// Resolver turns a validated session into an Identity.
type Resolver struct {
	profiles ProfileGetter
	guard    *tenant.Guard
}

// NewResolver creates a Resolver
func NewResolver(profiles ProfileGetter, guard *tenant.Guard) *Resolver {
	return &Resolver{profiles: profiles, guard: guard}
}

// Resolve loads the caller's profile and derives the Identity. The chain is
// fail-fast: a missing profile, a deactivated account, or an empty college
// domain each abort resolution before any resource access happens.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*Identity, error) {
	if userID == "" {
		return nil, apperrors.ErrAuthenticationRequired
	}

	profile, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	if !profile.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	domain := r.guard.Normalize(ctx, profile.CollegeDomain)
	if domain == "" {
		return nil, apperrors.ErrOnboardingIncomplete
	}

	role, ok := permissions.NormalizeRole(profile.Role)
	if !ok {
		// Unknown stored role: classify from graduation year rather than
		// granting anything by accident.
		role = permissions.RoleStudent
		if profile.GraduationYear != nil {
			role = permissions.ClassifyByGraduationYear(*profile.GraduationYear, time.Now())
		}
	}

	return &Identity{
		UserID:        profile.ID,
		Email:         profile.Email,
		Role:          role,
		CollegeDomain: domain,
	}, nil
}

// Can reports whether the identity holds the capability.
func (id *Identity) Can(capability permissions.Capability) bool {
	return permissions.HasPermission(id.Role, capability)
}
