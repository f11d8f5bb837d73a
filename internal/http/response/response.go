package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/platform/apierr"
)

// ErrorBody is the flat error shape the dashboard reads: {error} or {error, details}.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondError writes message as the error. When err is set its text becomes details.
func RespondError(c *gin.Context, status int, message string, err error) {
	if message == "" {
		message = http.StatusText(status)
	}
	body := ErrorBody{Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// RespondClientError writes a 4xx without details.
func RespondClientError(c *gin.Context, status int, message string) {
	RespondError(c, status, message, nil)
}

// RespondAPIError maps an *apierr.Error to its status. Anything else is a 500 carrying fallback
// as the message and the error text as details.
func RespondAPIError(c *gin.Context, err error, fallback string) {
	if ae, ok := apierr.As(err); ok && ae.Status > 0 {
		msg := ae.Message
		if msg == "" {
			msg = http.StatusText(ae.Status)
		}
		if ae.Status >= 500 {
			RespondError(c, ae.Status, msg, ae.Err)
			return
		}
		RespondClientError(c, ae.Status, msg)
		return
	}
	if fallback == "" {
		fallback = "Internal server error"
	}
	RespondError(c, http.StatusInternalServerError, fallback, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
