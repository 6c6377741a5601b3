// Package router registers the legal assistant routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/internal/legalai/handler"
)

// Register wires the HTTP routes onto the engine.
func Register(engine *gin.Engine, h *handler.Handler) {
	logger.Info("Registering routes...")

	engine.GET("/", h.Root)
	engine.GET("/health", h.Health)

	engine.POST("/stream", h.Stream)
	engine.POST("/query", h.Query)
	engine.GET("/stats", h.Stats)

	logger.Info("HTTP routes registered")
}
