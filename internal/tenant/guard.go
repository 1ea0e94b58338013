package tenant

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

const (
	aliasKeyPrefix = "tenant:alias:"
	aliasCacheTTL  = 12 * time.Hour
)

// Guard decides whether a caller may touch a resource belonging to another
// college domain. Every resource module goes through this one guard instead of
// re-implementing the domain comparison inline.
type Guard struct {
	rdb    *redis.Client // optional authoritative alias overrides; nil disables
	logger zerolog.Logger
}

// NewGuard creates a Guard. rdb may be nil, in which case only the static
// alias table is consulted.
func NewGuard(rdb *redis.Client, logger zerolog.Logger) *Guard {
	return &Guard{rdb: rdb, logger: logger}
}

// Normalize canonicalizes a domain, preferring the authoritative override set
// over the static table. Override lookups are best-effort: on any cache error
// the static normalizer answers, which may lag the server-side mapping.
func (g *Guard) Normalize(ctx context.Context, domain string) string {
	d := Normalize(domain)
	if g.rdb == nil || d == "" {
		return d
	}

	canonical, err := g.rdb.Get(ctx, aliasKeyPrefix+d).Result()
	if err != nil {
		if err != redis.Nil {
			g.logger.Warn().Err(err).Str("domain", d).Msg("Alias override lookup failed, using static normalizer")
		}
		return d
	}
	return Normalize(canonical)
}

// RegisterAlias records a runtime-discovered alias in the override set.
// Best-effort: failures are logged and ignored.
func (g *Guard) RegisterAlias(ctx context.Context, alias, canonical string) {
	if g.rdb == nil {
		return
	}
	if err := g.rdb.Set(ctx, aliasKeyPrefix+Normalize(alias), Normalize(canonical), aliasCacheTTL).Err(); err != nil {
		g.logger.Warn().Err(err).Str("alias", alias).Msg("Failed to register alias override")
	}
}

// EnsureSameTenant fails with ErrCrossTenantAccess when the caller's domain and
// the resource's domain normalize to different non-empty values. A resource
// with an empty domain is globally visible.
func (g *Guard) EnsureSameTenant(ctx context.Context, callerDomain, resourceDomain string) error {
	if resourceDomain == "" {
		return nil
	}
	if g.Normalize(ctx, callerDomain) != g.Normalize(ctx, resourceDomain) {
		return apperrors.ErrCrossTenantAccess
	}
	return nil
}

// SameTenant reports tenant equality without raising an error; read paths use
// it to filter rather than fail.
func (g *Guard) SameTenant(ctx context.Context, callerDomain, resourceDomain string) bool {
	return g.EnsureSameTenant(ctx, callerDomain, resourceDomain) == nil
}
