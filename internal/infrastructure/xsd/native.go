package xsd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
)

// NativeValidator motor XSD en Go puro (jacoelho/xsd). Los esquemas compilados se
// guardan por ruta y se comparten entre peticiones.
type NativeValidator struct {
	fsys fs.FS

	mu      sync.Mutex
	schemas map[string]*compiledSchema
}

type compiledSchema struct {
	once   sync.Once
	schema *xsd.Schema
	err    error
}

// NewNativeValidator resuelve los esquemas dentro de fsys (p.ej. os.DirFS o un embed.FS).
func NewNativeValidator(fsys fs.FS) *NativeValidator {
	return &NativeValidator{fsys: fsys, schemas: make(map[string]*compiledSchema)}
}

// NewNativeValidatorDir atajo sobre os.DirFS(root).
func NewNativeValidatorDir(root string) *NativeValidator {
	return NewNativeValidator(os.DirFS(root))
}

// Validate implementa Validator.
func (v *NativeValidator) Validate(ctx context.Context, xml []byte, schemaPath string) ([]validation.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := fs.Stat(v.fsys, schemaPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(schemaPath), nil
		}
		return nil, fmt.Errorf("xsd: leer esquema %s: %w", schemaPath, err)
	}

	schema, err := v.schema(schemaPath)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(bytes.NewReader(xml))
	if err == nil {
		return nil, nil
	}
	violations, ok := xsderrors.AsValidations(err)
	if !ok {
		return nil, fmt.Errorf("xsd: validar contra %s: %w", schemaPath, err)
	}

	findings := make([]validation.Finding, 0, len(violations))
	for _, vi := range violations {
		sev := validation.SeverityError
		if vi.Code == string(xsderrors.ErrXMLParse) {
			sev = validation.SeverityFatal
		}
		findings = append(findings, validation.NewFinding(validation.StageXSD, sev,
			formatMessage(vi.Code, vi.Message, vi.Path, vi.Line, vi.Column)))
	}
	return findings, nil
}

func (v *NativeValidator) schema(path string) (*xsd.Schema, error) {
	v.mu.Lock()
	entry, ok := v.schemas[path]
	if !ok {
		entry = &compiledSchema{}
		v.schemas[path] = entry
	}
	v.mu.Unlock()

	entry.once.Do(func() {
		entry.schema, entry.err = xsd.LoadWithOptions(v.fsys, path, xsd.NewLoadOptions())
		if entry.err != nil {
			entry.err = fmt.Errorf("xsd: compilar esquema %s: %w", path, entry.err)
		}
	})
	return entry.schema, entry.err
}

var _ Validator = (*NativeValidator)(nil)
