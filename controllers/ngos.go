package controllers

import (
	"context"

	"alfredoramos.mx/rescue-reporter/models"
	"github.com/gofiber/fiber/v2"
)

type NgoLister interface {
	List(ctx context.Context) ([]models.Ngo, error)
}

type NgoController struct {
	ngos NgoLister
}

func NewNgoController(l NgoLister) *NgoController {
	return &NgoController{ngos: l}
}

func (nc *NgoController) GetAllNgos(c *fiber.Ctx) error {
	ngos, err := nc.ngos.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Could not get NGOs.")
	}

	return c.Status(fiber.StatusOK).JSON(ngos)
}
