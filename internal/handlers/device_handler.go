package handlers

import (
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DeviceHandler struct {
	syncService *services.SyncService
}

func NewDeviceHandler(syncService *services.SyncService) *DeviceHandler {
	return &DeviceHandler{syncService: syncService}
}

func (h *DeviceHandler) UpdateLabel(c *fiber.Ctx) error {
	var req dto.UpdateDeviceLabelRequest
	if err := bind(c, &req, func() string { return req.Username }); err != nil {
		return writeError(c, err)
	}

	resp, err := h.syncService.UpdateDeviceLabel(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (h *DeviceHandler) Remove(c *fiber.Ctx) error {
	var req dto.RemoveDeviceRequest
	if err := bind(c, &req, func() string { return req.Username }); err != nil {
		return writeError(c, err)
	}

	resp, err := h.syncService.RemoveDevice(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (h *DeviceHandler) List(c *fiber.Ctx) error {
	username := c.Query("username")
	if username != "" {
		if err := authorize(c, username); err != nil {
			return writeError(c, err)
		}
	}

	resp, err := h.syncService.GetDevices(username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
