// Package handler provides the HTTP handlers of the legal assistant.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/internal/legalai/biz"
	"github.com/kart-io/legalai/internal/model"
	"github.com/kart-io/legalai/pkg/utils/json"
)

// Handler handles legal assistant HTTP requests.
type Handler struct {
	service biz.Service
}

// NewHandler creates a new Handler.
func NewHandler(service biz.Service) *Handler {
	return &Handler{service: service}
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Stream answers a question over a server-sent-event stream. Each pipeline
// event becomes one SSE message whose event name is the kind and whose data
// is the JSON payload. The stream ends after the terminal event; a client
// disconnect cancels the pipeline through the request context.
func (h *Handler) Stream(c *gin.Context) {
	var query model.Query
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	events := h.service.Stream(c.Request.Context(), query)

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}

		data, err := json.Marshal(event.Payload)
		if err != nil {
			logger.Errorw("Failed to marshal stream payload", "kind", event.Kind, "error", err.Error())
			return false
		}

		c.SSEvent(string(event.Kind), string(data))
		return !event.Terminal()
	})
}

// Query answers a question without streaming.
func (h *Handler) Query(c *gin.Context) {
	var query model.Query
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	result, err := h.service.Query(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, biz.ErrNoRelevantDocuments) {
			c.JSON(http.StatusNotFound, ErrorResponse{Code: 404, Message: biz.ErrNoDocuments})
			return
		}
		logger.Errorw("Query failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: biz.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stats returns knowledge base statistics.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: stats})
}

// Root reports that the service is running.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Legal AI Assistant is running"})
}

// Health reports service health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Legal AI Assistant"})
}
