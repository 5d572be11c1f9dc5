package middleware

import (
	"errors"

	"symptom-triage-server/internal/session"
	"symptom-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "triage_session"

const identityKey = "identity"

// ResolveIdentity resolves the session cookie on every request to exactly
// one of Authenticated, Guest, or Unauthenticated and attaches the result
// to the context. It never aborts; gating is done by RequireAuth and
// RequireIdentity.
func ResolveIdentity(store session.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Set(identityKey, session.Unauthenticated())
			c.Next()
			return
		}

		rec, err := store.Get(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				logger.Error("session store lookup failed", zap.Error(err))
			}
			c.Set(identityKey, session.Unauthenticated())
			c.Next()
			return
		}

		c.Set(identityKey, rec.Identity())
		c.Next()
	}
}

// RequireAuth gates routes that need an authenticated user. Guests are
// rejected here as well.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFromContext(c).IsAuthenticated() {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireIdentity gates routes open to both guests and authenticated
// users. It should be used *after* ResolveIdentity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFromContext(c).Resolved() {
			utils.Unauthorized(c, "A guest or authenticated session is required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the resolved identity for the request.
func IdentityFromContext(c *gin.Context) session.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return session.Unauthenticated()
	}
	ident, ok := value.(session.Identity)
	if !ok {
		return session.Unauthenticated()
	}
	return ident
}
