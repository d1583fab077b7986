package controllers

import (
	"alfredoramos.mx/rescue-reporter/utils"
	"github.com/gofiber/fiber/v2"
)

func GetIndex(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"message": utils.AppName() + " API",
		"version": "1.0",
		"endpoints": fiber.Map{
			"GET /api/reports":                    "Get all reports",
			"GET /api/reports/<id>/details":       "Get full report details",
			"GET /api/reports/<id>/notifications": "Get report notifications",
			"POST /api/reports":                   "Create new report",
			"PATCH /api/reports/<id>/status":      "Update report status",
			"GET /api/ngos":                       "Get all NGOs",
			"GET /api/health":                     "Health check",
		},
	})
}
