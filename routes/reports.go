package routes

import (
	"alfredoramos.mx/rescue-reporter/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterReportRoutes(g fiber.Router, h Handlers) {
	g.Get("/reports", h.Reports.GetAllReports).Name("api.reports.index")
	g.Post("/reports", middlewares.ReportLimiter(h.RequestsLimit), h.Reports.PostReport).Name("api.reports.add")
	g.Get("/reports/:id<int>/details", h.Reports.GetReportDetails).Name("api.reports.details")
	g.Patch("/reports/:id<int>/status", h.Reports.PatchReportStatus).Name("api.reports.status")
	g.Get("/reports/:id<int>/notifications", h.Reports.GetReportNotifications).Name("api.reports.notifications")
}

func RegisterNgoRoutes(g fiber.Router, h Handlers) {
	g.Get("/ngos", h.Ngos.GetAllNgos).Name("api.ngos.index")
}
