package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ReportLimiter limits report submissions per client IP. A max below one
// disables it.
func ReportLimiter(max int) fiber.Handler {
	cfg := limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return max < 1
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(&fiber.Map{"error": []string{"Too many requests received within a short amount of time."}})
		},
	}

	return limiter.New(cfg)
}
