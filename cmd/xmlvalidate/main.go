// xmlvalidate valida un documento DIAN sin levantar el servidor HTTP.
//
// Uso: go run ./cmd/xmlvalidate -type INVOICE -key <clave técnica> factura.xml
// Con "-" como archivo lee la entrada estándar. Imprime el resultado en JSON.
// Código de salida: 0 válido, 1 con hallazgos, 2 error de uso o técnico.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/jhoicas/dian-xml-validator/internal/application/dto"
	"github.com/jhoicas/dian-xml-validator/internal/application/validator"
	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xsd"
	"github.com/jhoicas/dian-xml-validator/pkg/config"
	"github.com/jhoicas/dian-xml-validator/pkg/logger"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitError   = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(exitError)
	}
	os.Exit(run(os.Args[1:], cfg, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmlvalidate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	docType := fs.String("type", validation.Invoice.Name, "tipo de documento (INVOICE, CREDIT_NOTE, DEBIT_NOTE, DOCUMENTO_SOPORTE)")
	key := fs.String("key", cfg.DIAN.TechnicalKey, "clave técnica de la resolución (para recalcular el CUFE)")
	root := fs.String("xsd-root", cfg.Validator.SchemaRoot, "directorio raíz de los esquemas XSD")
	engine := fs.String("xsd-engine", cfg.Validator.SchemaEngine, "motor XSD: native o libxml2")
	verbose := fs.Bool("v", false, "log detallado en stderr")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Uso: xmlvalidate [-type TIPO] [-key CLAVE] archivo.xml")
		return exitError
	}

	content, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Leer XML: %v\n", err)
		return exitError
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Output: stderr})

	schemas, err := xsd.New(*engine, *root)
	if err != nil {
		fmt.Fprintf(stderr, "Motor XSD: %v\n", err)
		return exitError
	}
	svc := newService(cfg, schemas, log.Zerolog())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.RequestTimeout)
	defer cancel()
	res, err := svc.Validate(ctx, validation.Request{XML: string(content), DocumentType: *docType, TechnicalKey: *key})
	if err != nil {
		fmt.Fprintf(stderr, "Validación: %v\n", err)
		return exitError
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.NewXMLValidationResponse(res)); err != nil {
		fmt.Fprintf(stderr, "Escribir resultado: %v\n", err)
		return exitError
	}
	if !res.Valid {
		return exitInvalid
	}
	return exitValid
}

func newService(cfg *config.Config, schemas xsd.Validator, log zerolog.Logger) *validator.Service {
	loc, err := time.LoadLocation(cfg.Validator.TimeZone)
	if err != nil {
		loc = validator.BogotaLocation()
	}
	clock := clockwork.NewRealClock()
	return validator.NewService(
		xmldoc.NewLoader(xmldoc.Limits{MaxBytes: cfg.Validator.MaxXMLBytes, MaxDepth: cfg.Validator.MaxDepth}),
		schemas,
		validator.NewSemanticValidator(clock, loc).WithNITCheckDigit(cfg.Validator.CheckNITDigit),
		validator.NewSignatureValidator(clock, log),
		log,
	)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
