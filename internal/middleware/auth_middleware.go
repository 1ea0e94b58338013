package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/auth"
)

const (
	// ContextIdentityKey is the gin context key holding the resolved caller
	ContextIdentityKey = "identity"
)

// AuthMiddleware validates the bearer token and resolves the caller's
// Identity before any handler runs. Requests without a resolvable identity
// never reach resource code.
func AuthMiddleware(jwtService *auth.JWTService, resolver *appauth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			// Let the error middleware translate resolution failures
			// (deactivated account, onboarding incomplete) precisely.
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the resolved Identity set by AuthMiddleware
func IdentityFromContext(c *gin.Context) (*appauth.Identity, bool) {
	value, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*appauth.Identity)
	return identity, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeAuthenticationRequired, message)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}
