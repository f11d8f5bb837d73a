package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/http/response"
	"github.com/yungbote/partnerhub-backend/internal/modules/chat"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type ChatAnswerer interface {
	Answer(ctx context.Context, in chat.AnswerInput) (chat.AnswerOutput, error)
}

type ChatHandlerDeps struct {
	Log  *logger.Logger
	Chat ChatAnswerer
}

type ChatHandler struct {
	log  *logger.Logger
	chat ChatAnswerer
}

func NewChatHandlerWithDeps(deps ChatHandlerDeps) *ChatHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: deps.Chat}
}

type chatReq struct {
	Message *string `json:"message"`
}

type chatResp struct {
	Response   string `json:"response"`
	HasContext bool   `json:"hasContext"`
	MatchCount int    `json:"matchCount"`
}

var stageMessages = map[chat.Stage]string{
	chat.StageEmbedding:  "Failed to generate embedding",
	chat.StageSearch:     "Failed to search documents",
	chat.StageCompletion: "Failed to generate response",
}

// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondClientError(c, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		if !errors.Is(err, io.EOF) {
			response.RespondClientError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		response.RespondClientError(c, http.StatusBadRequest, "Message is required")
		return
	}

	out, err := h.chat.Answer(c.Request.Context(), chat.AnswerInput{Message: *req.Message})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			response.RespondClientError(c, http.StatusBadRequest, "Message is required")
			return
		}
		var se *chat.StageError
		if errors.As(err, &se) {
			h.log.Error("Chat request failed", "stage", string(se.Stage), "error", se.Err)
			response.RespondError(c, http.StatusInternalServerError, stageMessages[se.Stage], se.Err)
			return
		}
		h.log.Error("Chat request failed", "error", err)
		response.RespondAPIError(c, err, "Internal server error")
		return
	}

	response.RespondOK(c, chatResp{
		Response:   out.Response,
		HasContext: out.HasContext,
		MatchCount: out.MatchCount,
	})
}
