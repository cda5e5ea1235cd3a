package handlers

import (
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(resp)
}
