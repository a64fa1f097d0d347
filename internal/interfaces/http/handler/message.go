package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
)

// MessageHandler exposes the caller's notification queue
type MessageHandler struct {
	BaseHandler
	dispatcher notification.Dispatcher
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(dispatcher notification.Dispatcher) *MessageHandler {
	return &MessageHandler{dispatcher: dispatcher}
}

// RegisterRoutes registers the message endpoints
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/messages")
	{
		group.GET("", h.Pending)
		group.POST("/:id/read", h.MarkRead)
	}
}

// MessageResponse is one rendered notification
type MessageResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	CorrelationTag string    `json:"correlation_tag"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListMessagesRequest bounds the pending queue read
type ListMessagesRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// Pending returns the caller's queued messages, oldest first, rendered
// in the caller's locale.
func (h *MessageHandler) Pending(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	var req ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	messages, err := h.dispatcher.Pending(c.Request.Context(), tenantID, userID, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	locale := notification.ParseLocale(middleware.GetJWTLanguage(c))
	responses := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, MessageResponse{
			ID:             msg.ID.String(),
			Type:           string(msg.Type),
			Content:        notification.Render(locale, msg.ContentKey, msg.ContentArgs),
			CorrelationTag: msg.CorrelationTag,
			Status:         string(msg.Status),
			CreatedAt:      msg.CreatedAt,
		})
	}
	h.Success(c, responses)
}

// MarkRead marks one of the caller's messages as read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID format")
		return
	}

	if err := h.dispatcher.MarkRead(c.Request.Context(), tenantID, userID, messageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": messageID.String()})
}
