package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthCheck func(ctx context.Context) error

func RegisterHealthCheckRoutes(g fiber.Router, check HealthCheck) {
	g.Get("/health", func(c *fiber.Ctx) error {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				slog.Error(fmt.Sprintf("Health check failed: %v", err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(&fiber.Map{"healthy": false})
			}
		}

		return c.Status(fiber.StatusOK).JSON(&fiber.Map{"healthy": true})
	}).Name("api.health")
}
