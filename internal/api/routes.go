package api

import (
	"strings"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func (s *Server) setupRoutes() {
	// Middleware
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.config.Security.AllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	s.app.Use(s.rateLimitMiddleware())
	s.app.Use(s.metricsMiddleware())

	// Health check
	s.app.Get("/api/health", s.handleHealth)

	v1 := s.app.Group("/api/v1")

	// Users and caregiver links
	v1.Post("/users", s.handleCreateUser)
	v1.Get("/users", s.handleListUsers)
	v1.Post("/links", s.handleCreateLink)
	v1.Post("/links/:id/activate", s.handleActivateLink)

	// Record ingestion
	v1.Post("/vitals", s.handleCreateVital)
	v1.Post("/symptoms", s.handleCreateSymptom)
	v1.Post("/medications", s.handleCreateMedication)
	v1.Post("/medications/logs", s.handleCreateMedicationLog)

	// Scoring and insights
	v1.Get("/score", s.handleScore)
	v1.Get("/insights", s.handleInsights)
	v1.Post("/insights/dismiss", s.handleDismissInsight)
	v1.Get("/medications/refills", s.handleRefills)

	// WebSocket insight stream
	s.app.Get("/ws/insights", websocket.New(s.handleInsightStream))
}
