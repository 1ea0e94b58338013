package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

func newTestGuard() *Guard {
	return NewGuard(nil, zerolog.Nop())
}

func TestEnsureSameTenantMatching(t *testing.T) {
	g := newTestGuard()
	if err := g.EnsureSameTenant(context.Background(), "stanford.edu", "Stanford.EDU"); err != nil {
		t.Fatalf("same tenant rejected: %v", err)
	}
}

func TestEnsureSameTenantAlias(t *testing.T) {
	g := newTestGuard()
	if err := g.EnsureSameTenant(context.Background(), "stanford.edu", "alumni.stanford.edu"); err != nil {
		t.Fatalf("aliased tenant rejected: %v", err)
	}
}

func TestEnsureSameTenantCrossTenant(t *testing.T) {
	g := newTestGuard()
	err := g.EnsureSameTenant(context.Background(), "stanford.edu", "ucla.edu")
	if !errors.Is(err, apperrors.ErrCrossTenantAccess) {
		t.Fatalf("expected ErrCrossTenantAccess, got %v", err)
	}
}

func TestEnsureSameTenantGlobalResource(t *testing.T) {
	g := newTestGuard()
	// Resources with no domain are globally visible.
	if err := g.EnsureSameTenant(context.Background(), "stanford.edu", ""); err != nil {
		t.Fatalf("global resource rejected: %v", err)
	}
}

func TestSameTenant(t *testing.T) {
	g := newTestGuard()
	if !g.SameTenant(context.Background(), "iitb.ac.in", "students.iitb.ac.in") {
		t.Error("expected aliased domains to be the same tenant")
	}
	if g.SameTenant(context.Background(), "iitb.ac.in", "iitm.ac.in") {
		t.Error("distinct institutions must not be the same tenant")
	}
}
