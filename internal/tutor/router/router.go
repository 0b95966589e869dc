// Package router provides Lecture Tutor service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/lecture-tutor/internal/tutor/handler"
	"github.com/kart-io/lecture-tutor/pkg/middleware"
)

// New builds a gin engine with all tutor routes registered.
func New(tutorHandler *handler.TutorHandler) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
	)

	engine.POST("/query", tutorHandler.Query)
	engine.GET("/health", tutorHandler.Health)

	logger.Info("HTTP routes registered")
	return engine
}
