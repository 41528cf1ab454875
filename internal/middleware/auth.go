package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// RequireAuth resolves the bearer token to a live user record before the
// handler runs. The user is re-read on every request so deleted accounts
// lose access immediately.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			apierrors.Unauthorized(c, "Not authorized, no token")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
		if token == "" {
			apierrors.Unauthorized(c, "Not authorized, no token")
			return
		}

		user, claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidToken),
				errors.Is(err, services.ErrTokenRevoked),
				errors.Is(err, services.ErrUserNotFound):
				apierrors.Unauthorized(c, "Not authorized, token failed")
			default:
				log.Error().Err(err).Msg("Failed to authenticate request")
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// GetClaims retrieves the token claims the request was authenticated with
func GetClaims(c *gin.Context) (*services.Claims, bool) {
	v, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}
