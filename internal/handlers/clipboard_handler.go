package handlers

import (
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ClipboardHandler struct {
	syncService *services.SyncService
}

func NewClipboardHandler(syncService *services.SyncService) *ClipboardHandler {
	return &ClipboardHandler{syncService: syncService}
}

func (h *ClipboardHandler) Add(c *fiber.Ctx) error {
	var req dto.AddClipboardRequest
	if err := bind(c, &req, func() string { return req.Username }); err != nil {
		return writeError(c, err)
	}

	resp, err := h.syncService.AddClipboard(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ClipboardHandler) List(c *fiber.Ctx) error {
	username := c.Query("username")
	if username != "" {
		if err := authorize(c, username); err != nil {
			return writeError(c, err)
		}
	}

	resp, err := h.syncService.GetClipboards(username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (h *ClipboardHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteClipboardRequest
	if err := bind(c, &req, func() string { return req.Username }); err != nil {
		return writeError(c, err)
	}

	resp, err := h.syncService.DeleteClipboard(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (h *ClipboardHandler) Clear(c *fiber.Ctx) error {
	var req dto.ClearClipboardsRequest
	if err := bind(c, &req, func() string { return req.Username }); err != nil {
		return writeError(c, err)
	}

	resp, err := h.syncService.ClearClipboards(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
