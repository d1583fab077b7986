package controllers

import (
	"errors"
	"fmt"
	"log/slog"

	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/stores"
	"alfredoramos.mx/rescue-reporter/utils"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
)

// errorResponse maps domain errors to their HTTP status. Anything unknown is
// reported and hidden behind a generic message.
func errorResponse(c *fiber.Ctx, err error, msg string) error {
	verr := &models.ValidationError{}

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": verr.Fields})
	case errors.Is(err, stores.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": utils.AddError(fiber.Map{}, "status", err.Error())})
	case errors.Is(err, stores.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{"error": []string{err.Error()}})
	}

	sentry.CaptureException(err)
	slog.Error(fmt.Sprintf("%s %v", msg, err))

	return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{"error": []string{msg}})
}

func reportID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, stores.ErrReportNotFound
	}

	return uint(id), nil
}
