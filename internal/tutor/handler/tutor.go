// Package handler provides HTTP handlers for the Lecture Tutor service.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/kart-io/lecture-tutor/internal/tutor/biz"
)

// Responder answers lecture questions as a stream of events.
type Responder interface {
	Answer(ctx context.Context, question string) (<-chan biz.Event, error)
}

// TutorHandler handles tutor HTTP requests.
type TutorHandler struct {
	responder Responder
}

// NewTutorHandler creates a new TutorHandler.
func NewTutorHandler(responder Responder) *TutorHandler {
	return &TutorHandler{
		responder: responder,
	}
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QueryRequest represents a query request.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// Query answers a question and streams the answer as SSE events.
func (h *TutorHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	events, err := h.responder.Answer(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		_ = sse.Encode(w, sse.Event{Data: event})
		return true
	})
}

// Health reports service liveness.
func (h *TutorHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
