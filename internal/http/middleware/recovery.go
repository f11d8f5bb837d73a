package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/http/response"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("Handler panic", "path", c.Request.URL.Path, "panic", recovered, "stack", string(debug.Stack()))
		}
		response.RespondError(c, http.StatusInternalServerError, "Internal server error", nil)
	})
}
