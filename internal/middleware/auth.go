package middleware

import (
	"context"
	"errors"
	"net/http"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/response"
	"artfolio/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ActiveUser runs after JWTAuth. It loads the account behind the token,
// rejects banned users and replaces the token role with the stored one so
// role changes and bans take effect before the token expires.
func ActiveUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(ctxUserID)
		if userID == 0 {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Account no longer exists")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("load authenticated user")
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
			return
		}
		if u.Banned {
			response.Abort(c, http.StatusForbidden, "ACCOUNT_BANNED", "This account has been banned")
			return
		}

		c.Set(ctxRole, string(u.Role))
		c.Next()
	}
}

// KnownUser runs after OptionalAuth on public routes. Banned or deleted
// accounts are demoted to anonymous instead of being rejected, and the
// stored role replaces the token role.
func KnownUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(ctxUserID)
		if userID == 0 {
			c.Next()
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		switch {
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			logrus.WithError(err).WithField("user_id", userID).Warn("load optional user")
			forget(c)
		case err != nil, u.Banned:
			forget(c)
		default:
			c.Set(ctxRole, string(u.Role))
		}
		c.Next()
	}
}

func forget(c *gin.Context) {
	c.Set(ctxUserID, int64(0))
	c.Set(ctxRole, "")
}

// CurrentActor returns the authenticated caller, or the zero Actor for
// anonymous requests.
func CurrentActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.GetInt64(ctxUserID),
		Role: domain.UserRole(c.GetString(ctxRole)),
	}
}
