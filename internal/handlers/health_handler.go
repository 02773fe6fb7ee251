package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports 503 when the database cannot be reached.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, code, dbStatus := "ok", fiber.StatusOK, "ok"
	if err := database.Ping(h.db); err != nil {
		status, code, dbStatus = "degraded", fiber.StatusServiceUnavailable, "unhealthy: "+err.Error()
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
