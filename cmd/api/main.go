package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"schoolapi/docs"
	"schoolapi/internal/auth"
	"schoolapi/internal/config"
	"schoolapi/internal/database"
	"schoolapi/internal/database/migration"
	handlers "schoolapi/internal/http/handler"
	"schoolapi/internal/http/middleware"
	"schoolapi/internal/logger"
	"schoolapi/internal/otel"
	"schoolapi/internal/service"
	"schoolapi/internal/storage"
)

// @title School API
// @version 1.0
// @description Add and list school records with images.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.Component("main")

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, cfg.Database.Driver, cfg.Database.Host); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	imageStore, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to initialize image store")
	}

	schoolRepo, contactRepo, err := newRepositories(cfg.Database.Driver, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repositories")
	}

	urls := service.ImageURLs{BaseURL: cfg.PublicBaseURL, Mount: cfg.UploadsMount}
	schoolSvc := service.NewSchoolService(imageStore, schoolRepo, urls)
	contactSvc := service.NewContactService(contactRepo)

	var signer *auth.Signer
	if cfg.Auth.JWTSecret != "" {
		signer = auth.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitBytes,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.CORS(cfg.CORSOrigin))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:           db,
		Schools:      schoolSvc,
		Contacts:     contactSvc,
		Signer:       signer,
		UploadsMount: cfg.UploadsMount,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = swaggerHost(c.Get("Host"), cfg.AppHost)
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting_down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().
		Str("addr", addr).
		Str("db_driver", cfg.Database.Driver).
		Str("storage_backend", cfg.Storage.Backend).
		Bool("auth_enabled", signer != nil).
		Msg("server_starting")

	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("failed to start server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
}

// swaggerHost prefers the request's Host header and falls back to APP_HOST.
func swaggerHost(requestHost, appHost string) string {
	if requestHost != "" {
		return requestHost
	}
	return appHost
}
