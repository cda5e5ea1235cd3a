package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/database"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store *store.Store
}

func NewHealthHandler(st *store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        database.Ping(),
		UserCount: h.store.UserCount(),
	})
}
