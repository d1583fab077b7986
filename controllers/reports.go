package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/utils"
	"alfredoramos.mx/rescue-reporter/workflow"
	"github.com/gofiber/fiber/v2"
)

type ReportService interface {
	Submit(ctx context.Context, s workflow.Submission, img *workflow.Image) (workflow.Result, error)
	Transition(ctx context.Context, id uint, status models.ReportStatus) error
}

type ReportReader interface {
	List(ctx context.Context, onlyOpen bool) ([]models.ReportSummary, error)
	Detail(ctx context.Context, id uint) (models.ReportDetail, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type NotificationReader interface {
	ListByReport(ctx context.Context, reportID uint) ([]models.Notification, error)
}

type ReportController struct {
	workflow      ReportService
	reports       ReportReader
	notifications NotificationReader
}

func NewReportController(w ReportService, r ReportReader, n NotificationReader) *ReportController {
	return &ReportController{workflow: w, reports: r, notifications: n}
}

type statusInput struct {
	Status string `json:"status"`
}

func (rc *ReportController) GetAllReports(c *fiber.Ctx) error {
	reports, err := rc.reports.List(c.UserContext(), utils.IsTruthy(c.Query("onlyOpen")))
	if err != nil {
		return errorResponse(c, err, "Could not get reports.")
	}

	return c.Status(fiber.StatusOK).JSON(reports)
}

func (rc *ReportController) GetReportDetails(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return errorResponse(c, err, "")
	}

	detail, err := rc.reports.Detail(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Could not get report details.")
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

func (rc *ReportController) PostReport(c *fiber.Ctx) error {
	input := workflow.Submission{}

	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": []string{"Invalid report data."}})
	}

	var img *workflow.Image

	if fh, err := c.FormFile("photo"); err == nil && fh != nil && len(fh.Filename) > 0 {
		f, err := fh.Open()
		if err != nil {
			slog.Warn(fmt.Sprintf("Could not open uploaded image '%s': %v", fh.Filename, err))
		} else {
			defer f.Close()
			img = &workflow.Image{Filename: fh.Filename, Content: f}
		}
	}

	res, err := rc.workflow.Submit(c.UserContext(), input, img)
	if err != nil {
		return errorResponse(c, err, "Could not create report.")
	}

	body := fiber.Map{
		"message": "Report created successfully",
		"id":      res.ID,
		"status":  res.Status,
	}

	if res.Assignment.IsAssigned() {
		body["assigned_ngo"] = res.Assignment.Ngo.Name
		body["distance_km"] = res.Assignment.DistanceKm
	}

	return c.Status(fiber.StatusCreated).JSON(body)
}

func (rc *ReportController) PatchReportStatus(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return errorResponse(c, err, "")
	}

	input := statusInput{}

	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": utils.AddError(fiber.Map{}, "status", "Invalid status data.")})
	}

	status := models.ReportStatus(strings.TrimSpace(input.Status))

	if err := rc.workflow.Transition(c.UserContext(), id, status); err != nil {
		return errorResponse(c, err, "Could not update report status.")
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"message": "Status updated successfully",
		"id":      id,
		"status":  status,
	})
}

func (rc *ReportController) GetReportNotifications(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return errorResponse(c, err, "")
	}

	exists, err := rc.reports.Exists(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Could not get report notifications.")
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{"error": []string{"The report does not exist."}})
	}

	list, err := rc.notifications.ListByReport(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Could not get report notifications.")
	}

	return c.Status(fiber.StatusOK).JSON(list)
}
