package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/dian-xml-validator/internal/application/validator"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xsd"
	httpRouter "github.com/jhoicas/dian-xml-validator/internal/interfaces/http"
	"github.com/jhoicas/dian-xml-validator/pkg/config"
	"github.com/jhoicas/dian-xml-validator/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("xsd_engine", cfg.Validator.SchemaEngine).
		Str("xsd_root", cfg.Validator.SchemaRoot).
		Msg("iniciando aplicación")

	schemas, err := xsd.New(cfg.Validator.SchemaEngine, cfg.Validator.SchemaRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("motor XSD")
	}

	loc, err := time.LoadLocation(cfg.Validator.TimeZone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.Validator.TimeZone).Msg("zona horaria no disponible, se usa America/Bogota")
		loc = validator.BogotaLocation()
	}

	clock := clockwork.NewRealClock()
	validatorSvc := validator.NewService(
		xmldoc.NewLoader(xmldoc.Limits{MaxBytes: cfg.Validator.MaxXMLBytes, MaxDepth: cfg.Validator.MaxDepth}),
		schemas,
		validator.NewSemanticValidator(clock, loc).WithNITCheckDigit(cfg.Validator.CheckNITDigit),
		validator.NewSignatureValidator(clock, log.Component("signature")),
		log.Component("validator"),
	).WithDefaultTechnicalKey(cfg.DIAN.TechnicalKey)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if !httpRouter.MountDocs(app, cfg.HTTP.SwaggerFile, "DIAN XML Validator API") {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Validator:      validatorSvc,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
