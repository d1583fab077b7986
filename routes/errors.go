package routes

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escape the handlers, such as an oversized
// body, with the same envelope as the API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "The server has encountered an error that cannot be handled."

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error(fmt.Sprintf("Application error handler: %v", err))
	} else {
		slog.Warn(fmt.Sprintf("Application error handler: %v", err))
	}

	return c.Status(code).JSON(&fiber.Map{"error": []string{msg}})
}

func RegisterErrorHandlers(g fiber.Router) {
	// 404 Handler
	g.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{"error": []string{"The requested resource could not be found."}})
	})
}
