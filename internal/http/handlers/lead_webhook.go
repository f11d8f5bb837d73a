package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/http/response"
	"github.com/yungbote/partnerhub-backend/internal/modules/leads"
	"github.com/yungbote/partnerhub-backend/internal/platform/apierr"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type LeadIngester interface {
	IngestWebhook(ctx context.Context, raw []byte) (leads.IngestOutput, error)
}

type LeadWebhookHandlerDeps struct {
	Log   *logger.Logger
	Leads LeadIngester
}

type LeadWebhookHandler struct {
	log   *logger.Logger
	leads LeadIngester
}

func NewLeadWebhookHandlerWithDeps(deps LeadWebhookHandlerDeps) *LeadWebhookHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &LeadWebhookHandler{log: log.With("handler", "LeadWebhookHandler"), leads: deps.Leads}
}

// payloadLogLimit bounds how much of a failing payload is written to the log.
const payloadLogLimit = 4096

// POST /api/get-leads
func (h *LeadWebhookHandler) Ingest(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondClientError(c, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		response.RespondClientError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	out, err := h.leads.IngestWebhook(c.Request.Context(), raw)
	if err != nil {
		if ae, ok := apierr.As(err); ok && ae.Status < 500 {
			h.log.Warn("Rejected webhook payload", "error", err, "payload", clip(raw, payloadLogLimit))
		} else {
			h.log.Error("Webhook processing failed", "error", err, "payload", clip(raw, payloadLogLimit))
		}
		response.RespondAPIError(c, err, "Failed to process lead")
		return
	}

	response.RespondOK(c, gin.H{
		"message":   "Lead processed successfully",
		"contactId": out.ContactID,
	})
}

func clip(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "...(truncated)"
}
