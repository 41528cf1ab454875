package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
)

// Recovery turns panics into a 500 response without leaking internals.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		apierrors.InternalError(c, "")
	})
}
