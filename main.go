package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alfredoramos.mx/rescue-reporter/app"
	"alfredoramos.mx/rescue-reporter/assignment"
	"alfredoramos.mx/rescue-reporter/controllers"
	"alfredoramos.mx/rescue-reporter/directory"
	"alfredoramos.mx/rescue-reporter/notifications"
	"alfredoramos.mx/rescue-reporter/routes"
	"alfredoramos.mx/rescue-reporter/stores"
	"alfredoramos.mx/rescue-reporter/tasks"
	"alfredoramos.mx/rescue-reporter/uploads"
	"alfredoramos.mx/rescue-reporter/utils"
	"alfredoramos.mx/rescue-reporter/workflow"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/rueidis"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error(fmt.Sprintf("Could not load .env file: %v", err))
		os.Exit(1)
	}

	// Set default timezone
	time.Local = utils.DefaultLocation()

	app.SetupSentry()
	defer sentry.Flush(2 * time.Second)

	// Database
	db, err := app.NewDB(utils.DatabaseDSN())
	if err != nil {
		slog.Error(fmt.Sprintf("Could not connect to database: %v", err))
		os.Exit(1)
	}

	if err := app.Migrate(db); err != nil {
		slog.Error(fmt.Sprintf("Could not migrate database: %v", err))
		os.Exit(1)
	}

	// Cache is optional
	var cache rueidis.Client
	if c, err := app.NewCache(); err != nil {
		slog.Warn(fmt.Sprintf("Could not connect to cache, NGO list will not be cached: %v", err))
	} else {
		cache = c
		defer cache.Close()
	}

	reports := stores.NewReports(db)
	ngos := stores.NewCachedNgos(stores.NewNgos(db), cache)
	deliveries := stores.NewNotifications(db)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	count, err := app.SeedNgos(seedCtx, ngos, utils.NgoSeedFile())
	cancelSeed()
	if err != nil {
		slog.Error(fmt.Sprintf("Could not seed NGOs: %v", err))
		os.Exit(1)
	}
	slog.Info(fmt.Sprintf("Registered %d NGOs from seed file.", count))

	// Email notifications go through the task queue
	var enqueuer notifications.Enqueuer
	var queue *asynq.Server

	if utils.EmailEnabled() {
		mailer, err := app.NewMailer()
		if err != nil {
			slog.Error(fmt.Sprintf("Could not setup mailer: %v", err))
			os.Exit(1)
		}

		client := tasks.NewClient(tasks.RedisConnOpt())
		defer client.Close()
		enqueuer = client

		queue = tasks.NewServer(tasks.RedisConnOpt())
		mux := tasks.NewServeMux(mailer)

		go func() {
			if err := queue.Run(mux); err != nil {
				slog.Error(fmt.Sprintf("Could not run queue server: %v", err))
				os.Exit(1)
			}
		}()
	}

	channels, err := notifications.ChannelsFromConfig(utils.NotifyChannels(), enqueuer, slog.Default())
	if err != nil {
		slog.Error(fmt.Sprintf("Could not setup notification channels: %v", err))
		os.Exit(1)
	}

	dispatcher := notifications.NewDispatcher(
		channels,
		notifications.WithTimeout(utils.NotifyTimeout()),
		notifications.WithRecorder(deliveries),
		notifications.WithMapsBaseURL(utils.MapsBaseURL()),
	)

	disk, err := uploads.NewDisk(utils.UploadDir())
	if err != nil {
		slog.Error(fmt.Sprintf("Could not setup uploads directory: %v", err))
		os.Exit(1)
	}

	engine := assignment.NewEngine(directory.New(ngos))
	flow := workflow.New(reports, engine, dispatcher, disk)

	// Setup app
	server := fiber.New(fiber.Config{
		ErrorHandler: routes.ErrorHandler,
		AppName:      utils.AppName(),
		BodyLimit:    utils.UploadMaxSize(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Setup routes
	routes.SetupRoutes(server, routes.Handlers{
		Reports:       controllers.NewReportController(flow, reports, deliveries),
		Ngos:          controllers.NewNgoController(ngos),
		UploadDir:     disk.Dir(),
		RequestsLimit: utils.RequestsLimit(),
		AllowOrigins:  utils.CorsAllowOrigins(),
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}

			return sqlDB.PingContext(ctx)
		},
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		slog.Info("Shutting down server.")

		if queue != nil {
			queue.Shutdown()
		}

		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error(fmt.Sprintf("Could not shutdown server: %v", err))
		}
	}()

	// Setup server
	if err := server.Listen(utils.AppAddress()); err != nil {
		slog.Error(fmt.Sprintf("Could not setup server: %v", err))
		os.Exit(1)
	}
}
