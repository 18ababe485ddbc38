package api

import (
	"github.com/gin-gonic/gin"

	"github.com/eleven-am/keep/internal/auth"
	"github.com/eleven-am/keep/internal/domain"
)

const identityKey = "keep.identity"

// TokenAuthMiddleware verifies the bearer token on every request and
// stashes the asserted identity in the request context.
func TokenAuthMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.Request)
		if err != nil {
			writeError(c, err)
			return
		}

		ident, err := verifier.Verify(token)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// callerIdentity returns the identity placed by TokenAuthMiddleware.
func callerIdentity(c *gin.Context) (auth.Identity, error) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, domain.ErrNotAuthenticated
	}
	ident, ok := value.(auth.Identity)
	if !ok {
		return auth.Identity{}, domain.ErrNotAuthenticated
	}
	return ident, nil
}
