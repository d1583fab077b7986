package routes

import (
	"alfredoramos.mx/rescue-reporter/controllers"
	"alfredoramos.mx/rescue-reporter/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/idempotency"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Handlers struct {
	Reports       *controllers.ReportController
	Ngos          *controllers.NgoController
	UploadDir     string
	RequestsLimit int
	AllowOrigins  string
	Health        HealthCheck
	Quiet         bool
}

func SetupRoutes(app *fiber.App, h Handlers) {
	isDebug := utils.IsDebug()

	recoverConfig := recover.Config{
		EnableStackTrace: isDebug,
	}

	corsConfig := cors.Config{
		AllowOrigins: h.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With, X-Idempotency-Key",
		AllowMethods: "GET,POST,PATCH,HEAD,OPTIONS",
	}

	if len(corsConfig.AllowOrigins) < 1 {
		corsConfig.AllowOrigins = "*"
	}

	loggerConfig := logger.Config{
		Format:     "[${time}] ${locals:requestid} ${status} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05 -07:00",
		TimeZone:   utils.DefaultTimeZone(),
		Next: func(c *fiber.Ctx) bool {
			return h.Quiet
		},
	}

	app.Use(recover.New(recoverConfig))
	app.Use(cors.New(corsConfig))
	app.Use(idempotency.New())
	app.Use(requestid.New())
	app.Use(logger.New(loggerConfig))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Get("/", controllers.GetIndex).Name("index")

	// Uploaded images
	if len(h.UploadDir) > 0 {
		app.Static("/uploads", h.UploadDir, fiber.Static{
			Browse:   false,
			Download: false,
		})
	}

	api := app.Group("/api")

	// Reports
	RegisterReportRoutes(api, h)

	// NGOs
	RegisterNgoRoutes(api, h)

	// Health check
	RegisterHealthCheckRoutes(api, h.Health)

	// Error handlers
	// Must be the last one!
	RegisterErrorHandlers(app)
}
