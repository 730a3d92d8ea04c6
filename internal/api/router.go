package api

import (
	"embed"
	"net/http"
	"time"

	_ "ean-extractor/docs"
	"ean-extractor/internal/api/handlers"
	"ean-extractor/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

//go:embed web
var webFS embed.FS

type RouterConfig struct {
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

func SetupRouter(extractionHandler *handlers.ExtractionHandler, cfg RouterConfig, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "ean-extractor",
		// multipart overhead on top of the file itself
		BodyLimit:             int(cfg.MaxUploadBytes) + 1<<20,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
	}))
	app.Use(logger.New())
	app.Use(middleware.RequestID(appLogger))

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	v1.Get("/model", extractionHandler.GetModel)

	extractions := v1.Group("/extractions")
	extractions.Post("", extractionHandler.CreateExtraction)
	extractions.Post("/download", extractionHandler.DownloadExtraction)

	// Upload page
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(webFS),
		PathPrefix: "web",
		Index:      "index.html",
	}))

	return app
}
