package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/insights"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/store"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   s.wellapp.Version,
		"timestamp": time.Now().Unix(),
	})
}

// ==================== Users ====================

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Role != "" && req.Role != "patient" && req.Role != "caregiver" {
		return c.Status(400).JSON(fiber.Map{"error": "role must be patient or caregiver"})
	}

	user := &store.User{DisplayName: req.DisplayName, Role: req.Role}
	if err := s.wellapp.Store.CreateUser(user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user"})
	}
	return c.Status(201).JSON(user)
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	users, err := s.wellapp.Store.ListUsers()
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to list users"})
	}
	return c.JSON(users)
}

// ==================== Caregiver Links ====================

func (s *Server) handleCreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.CaregiverID == "" || req.PatientID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "caregiver_id and patient_id are required"})
	}

	link := &store.CaregiverLink{CaregiverID: req.CaregiverID, PatientID: req.PatientID}
	if err := s.wellapp.Store.CreateCaregiverLink(link); err != nil {
		s.logger.Error("failed to create link", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to create link"})
	}
	return c.Status(201).JSON(link)
}

func (s *Server) handleActivateLink(c *fiber.Ctx) error {
	if err := s.wellapp.Store.ActivateCaregiverLink(c.Params("id")); err != nil {
		s.logger.Error("failed to activate link", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to activate link"})
	}
	return c.SendStatus(204)
}

// ==================== Record Ingestion ====================

func (s *Server) handleCreateVital(c *fiber.Ctx) error {
	var req VitalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.UserID == "" || req.Type == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and type are required"})
	}
	if req.MeasuredAt.IsZero() {
		req.MeasuredAt = time.Now()
	}

	rec := &store.VitalRecord{
		UserID:     req.UserID,
		Type:       req.Type,
		Values:     store.ToJSON(req.Values),
		OutOfRange: req.OutOfRange,
		MeasuredAt: req.MeasuredAt,
	}
	if err := s.wellapp.Store.CreateVital(rec); err != nil {
		s.logger.Error("failed to store vital", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to store vital"})
	}
	return c.Status(201).JSON(rec)
}

func (s *Server) handleCreateSymptom(c *fiber.Ctx) error {
	var req SymptomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}
	if req.LoggedAt.IsZero() {
		req.LoggedAt = time.Now()
	}

	rec := &store.SymptomRecord{
		UserID:   req.UserID,
		Type:     req.Type,
		Severity: req.Severity,
		Notes:    req.Notes,
		LoggedAt: req.LoggedAt,
	}
	if err := s.wellapp.Store.CreateSymptom(rec); err != nil {
		s.logger.Error("failed to store symptom", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to store symptom"})
	}
	return c.Status(201).JSON(rec)
}

func (s *Server) handleCreateMedication(c *fiber.Ctx) error {
	var req MedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.UserID == "" || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and name are required"})
	}

	rec := &store.MedicationRecord{
		UserID:           req.UserID,
		Name:             req.Name,
		Dosage:           req.Dosage,
		PillsRemaining:   req.PillsRemaining,
		DailyConsumption: req.DailyConsumption,
		IsActive:         true,
	}
	if err := s.wellapp.Store.CreateMedication(rec); err != nil {
		s.logger.Error("failed to store medication", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to store medication"})
	}
	return c.Status(201).JSON(rec)
}

func (s *Server) handleCreateMedicationLog(c *fiber.Ctx) error {
	var req MedicationLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.UserID == "" || req.MedicationID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and medication_id are required"})
	}
	switch req.Status {
	case "taken", "missed", "skipped":
	default:
		return c.Status(400).JSON(fiber.Map{"error": "status must be taken, missed, or skipped"})
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	rec := &store.MedicationLogRecord{
		UserID:       req.UserID,
		MedicationID: req.MedicationID,
		Status:       req.Status,
		CreatedAt:    req.CreatedAt,
	}
	if err := s.wellapp.Store.CreateMedicationLog(rec); err != nil {
		s.logger.Error("failed to store medication log", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to store medication log"})
	}
	return c.Status(201).JSON(rec)
}

// ==================== Scoring and Insights ====================

func (s *Server) handleScore(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	result, err := s.wellapp.ScoreUser(userID)
	if err != nil {
		s.logger.Error("failed to compute score", zap.String("user_id", userID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to compute score"})
	}

	return c.JSON(ScoreResponse{
		UserID:       userID,
		Score:        result.Score,
		Factors:      result.Factors,
		Personalized: result.Personalized,
		Insights:     result.Insights,
		ComputedAt:   result.ComputedAt,
	})
}

func (s *Server) handleInsights(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	batch, err := s.wellapp.InsightsForUser(userID)
	if err != nil {
		s.logger.Error("failed to generate insights", zap.String("user_id", userID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate insights"})
	}

	return c.JSON(InsightsResponse{UserID: userID, Insights: batch})
}

func (s *Server) handleDismissInsight(c *fiber.Ctx) error {
	var req DismissRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.UserID == "" || req.Kind == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and kind are required"})
	}
	switch insights.Kind(req.Kind) {
	case insights.KindTrend, insights.KindCorrelation, insights.KindPrediction, insights.KindPersonalized:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "unknown insight kind"})
	}

	if err := s.wellapp.Store.DismissInsight(req.UserID, req.Kind, time.Now()); err != nil {
		s.logger.Error("failed to dismiss insight", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to dismiss insight"})
	}
	return c.SendStatus(204)
}

func (s *Server) handleRefills(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	statuses, err := s.wellapp.RefillStatuses(userID)
	if err != nil {
		s.logger.Error("failed to check refills", zap.String("user_id", userID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "failed to check refills"})
	}

	return c.JSON(RefillsResponse{UserID: userID, Refills: statuses})
}
