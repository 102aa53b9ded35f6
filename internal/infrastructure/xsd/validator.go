// Package xsd: validación estructural de documentos contra los esquemas XSD de la DIAN.
package xsd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
)

// Motores disponibles.
const (
	EngineNative  = "native"
	EngineLibxml2 = "libxml2"
)

// Validator valida xml contra el esquema ubicado en schemaPath (relativo a la raíz configurada).
// Las violaciones de contenido se devuelven como hallazgos; error solo ante fallas de infraestructura.
type Validator interface {
	Validate(ctx context.Context, xml []byte, schemaPath string) ([]validation.Finding, error)
}

// New crea el motor indicado sobre el directorio raíz de esquemas.
func New(engine, root string) (Validator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineNative:
		return NewNativeValidatorDir(root), nil
	case EngineLibxml2:
		v, err := NewLibxml2Validator(root)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("xsd: motor desconocido %q", engine)
	}
}

func notFound(schemaPath string) []validation.Finding {
	return []validation.Finding{
		validation.NewFinding(validation.StageXSD, validation.SeverityFatal, "XSD no encontrado: "+schemaPath),
	}
}

// formatMessage "<código>: <mensaje> (línea L, columna C)".
func formatMessage(code, msg, path string, line, column int) string {
	var b strings.Builder
	if code != "" {
		b.WriteString(code)
		b.WriteString(": ")
	}
	b.WriteString(strings.TrimSpace(msg))
	if path != "" {
		b.WriteString(" en ")
		b.WriteString(path)
	}
	switch {
	case line > 0 && column > 0:
		fmt.Fprintf(&b, " (línea %d, columna %d)", line, column)
	case line > 0:
		fmt.Fprintf(&b, " (línea %d)", line)
	}
	return b.String()
}
