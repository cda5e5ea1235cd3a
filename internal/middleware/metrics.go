package middleware

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics counts every request by matched route and final status code.
// Errors returned by later handlers are resolved through the app's error
// handler first so the status label is accurate.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		metrics.Requests.WithLabelValues(c.Route().Path, strconv.Itoa(c.Response().StatusCode())).Inc()
		return nil
	}
}
