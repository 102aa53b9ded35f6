package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/pkg/logger"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	zl := log.Component("validator")
	zl.Info().Str("document_type", "INVOICE").Msg("validando documento")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "la salida debe ser JSON: %s", buf.String())
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "validator", entry["component"])
	assert.Equal(t, "INVOICE", entry["document_type"])
	assert.Equal(t, "validando documento", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "WARN", Output: &buf})

	log.Info().Msg("no debe salir")
	log.Debug().Msg("tampoco")
	assert.Empty(t, buf.String())

	log.Warn().Msg("sí sale")
	assert.Contains(t, buf.String(), "sí sale")
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verboso", Output: &buf})

	log.Debug().Msg("oculto")
	log.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_DesarrolloEsLegible(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "development", Output: &buf})

	log.Info().Msg("iniciando aplicación")

	out := buf.String()
	assert.Contains(t, out, "iniciando aplicación")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "en desarrollo la salida no es JSON")
	assert.NotContains(t, out, "\x1b[", "sin colores cuando la salida no es la terminal")
}
