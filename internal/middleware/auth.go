package middleware

import (
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/config"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the bearer token and stores it under the "user" local.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Message: "Unauthorized: invalid or expired token",
				Status:  fiber.StatusUnauthorized,
			})
		},
	})
}

// TokenGuard returns JWTProtected when tokens are required, and a pass-through
// handler otherwise.
func TokenGuard(cfg *config.Config) fiber.Handler {
	if !cfg.RequireToken || cfg.JWTSecret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return JWTProtected(cfg)
}
