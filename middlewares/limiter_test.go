package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/", ReportLimiter(2), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	codes := []int{}

	for i := 0; i < 3; i++ {
		res, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
		require.NoError(t, err)
		codes = append(codes, res.StatusCode)
	}

	assert.Equal(t, []int{fiber.StatusCreated, fiber.StatusCreated, fiber.StatusTooManyRequests}, codes)
}

func TestReportLimiterDisabled(t *testing.T) {
	app := fiber.New()
	app.Post("/", ReportLimiter(0), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 5; i++ {
		res, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	}
}
