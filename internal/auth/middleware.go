package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	dom "github.com/Crapteep/automation-hub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKeyUser = "current_user"

// UserLoader resolves a user by ID. Implemented by the service layer; the
// middleware does not care whether the answer comes from Redis or Postgres.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (dom.User, error)
}

// UserFromContext returns the user set by RequireUser. The bool is false if
// the middleware did not run on this route.
func UserFromContext(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// RequireUser returns a middleware that resolves the Bearer token to a live,
// active user and stores it in the request context.
// Expired tokens get 401, malformed or forged ones 403, an unknown subject
// 404 and an inactive account 400, matching the upstream API contract.
func RequireUser(tokens *TokenService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		userID, err := tokens.Validate(raw)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "could not validate credentials"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, dom.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "inactive user"})
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// RequireSuperuser rejects requests whose resolved user is not a superuser.
// Must be registered after RequireUser.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if !user.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "the user doesn't have enough privileges"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
