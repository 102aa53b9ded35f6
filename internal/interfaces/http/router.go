package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/dian-xml-validator/internal/application/validator"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Validator      *validator.Service
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	registerXMLRoutes(app, deps.Validator, deps.RequestTimeout, deps.Logger)
}

func registerXMLRoutes(app *fiber.App, svc xmlValidator, timeout time.Duration, log zerolog.Logger) {
	xmlGroup := app.Group("/api/xml")
	handler := NewXMLValidationHandler(svc, timeout, log)
	xmlGroup.Post("/validate", handler.Validate)
	xmlGroup.Get("/document-types", handler.DocumentTypes)
}

// MountDocs publica Swagger UI en /docs si specFile existe. Devuelve false si no se montó.
func MountDocs(app *fiber.App, specFile, title string) bool {
	if specFile == "" {
		return false
	}
	if _, err := os.Stat(specFile); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: specFile,
		Path:     "docs",
		Title:    title,
	}))
	return true
}
