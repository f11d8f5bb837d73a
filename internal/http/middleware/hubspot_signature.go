package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/http/response"
	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

// HubSpotSignature verifies X-HubSpot-Signature-v3 against the raw body and puts the body back
// for the handler. publicBaseURL is the externally visible scheme+host HubSpot signed
// (e.g. https://partners.example.com); empty derives it from the request and X-Forwarded-* headers.
func HubSpotSignature(log *logger.Logger, secret, publicBaseURL string, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	publicBaseURL = strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	mwLog := log.With("middleware", "HubSpotSignature")
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			b, err := io.ReadAll(c.Request.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					response.RespondClientError(c, http.StatusRequestEntityTooLarge, "Payload too large")
					return
				}
				response.RespondClientError(c, http.StatusBadRequest, "Unreadable body")
				return
			}
			body = b
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		uri := requestURL(c, publicBaseURL)
		err := hubspot.VerifyV3(
			secret,
			c.Request.Method,
			uri,
			body,
			c.GetHeader(hubspot.HeaderTimestamp),
			c.GetHeader(hubspot.HeaderSignatureV3),
			now(),
		)
		if err != nil {
			mwLog.Warn("Rejected webhook signature", "uri", uri, "error", err)
			response.RespondClientError(c, http.StatusUnauthorized, "Invalid signature")
			return
		}
		c.Next()
	}
}

func requestURL(c *gin.Context, publicBaseURL string) string {
	if publicBaseURL != "" {
		return publicBaseURL + c.Request.URL.RequestURI()
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); p != "" {
		scheme = strings.ToLower(strings.Split(p, ",")[0])
	}
	host := c.Request.Host
	if h := strings.TrimSpace(c.GetHeader("X-Forwarded-Host")); h != "" {
		host = strings.Split(h, ",")[0]
	}
	return scheme + "://" + strings.TrimSpace(host) + c.Request.URL.RequestURI()
}
