//go:build libxml2

package xsd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	xsdvalidate "github.com/terminalstatic/go-xsd-validate"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
)

var initOnce sync.Once

// Libxml2Validator motor XSD sobre libxml2 (cgo). Requiere compilar con -tags libxml2.
type Libxml2Validator struct {
	root string

	mu       sync.Mutex
	handlers map[string]*xsdvalidate.XsdHandler
}

// NewLibxml2Validator inicializa libxml2 una sola vez por proceso.
func NewLibxml2Validator(root string) (*Libxml2Validator, error) {
	var err error
	initOnce.Do(func() { err = xsdvalidate.Init() })
	if err != nil {
		return nil, fmt.Errorf("xsd: inicializar libxml2: %w", err)
	}
	return &Libxml2Validator{root: root, handlers: make(map[string]*xsdvalidate.XsdHandler)}, nil
}

// Validate implementa Validator.
func (v *Libxml2Validator) Validate(ctx context.Context, xml []byte, schemaPath string) ([]validation.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := filepath.Join(v.root, filepath.FromSlash(schemaPath))
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(schemaPath), nil
		}
		return nil, fmt.Errorf("xsd: leer esquema %s: %w", schemaPath, err)
	}

	handler, err := v.handler(full)
	if err != nil {
		return nil, err
	}

	err = handler.ValidateMem(xml, xsdvalidate.ValidErrDefault)
	if err == nil {
		return nil, nil
	}
	switch e := err.(type) {
	case xsdvalidate.ValidationError:
		findings := make([]validation.Finding, 0, len(e.Errors))
		for _, se := range e.Errors {
			findings = append(findings, validation.NewFinding(validation.StageXSD, levelSeverity(se.Level),
				formatMessage(fmt.Sprint(se.Code), se.Message, se.NodeName, se.Line, 0)))
		}
		return findings, nil
	default:
		// XML no parseable por libxml2
		return []validation.Finding{
			validation.NewFinding(validation.StageXSD, validation.SeverityFatal, formatMessage("xml-parse-error", err.Error(), "", 0, 0)),
		}, nil
	}
}

func (v *Libxml2Validator) handler(full string) (*xsdvalidate.XsdHandler, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if h, ok := v.handlers[full]; ok {
		return h, nil
	}
	h, err := xsdvalidate.NewXsdHandlerUrl(full, xsdvalidate.ParsErrDefault)
	if err != nil {
		return nil, fmt.Errorf("xsd: compilar esquema %s: %w", full, err)
	}
	v.handlers[full] = h
	return h, nil
}

// Close libera los esquemas compilados y libxml2.
func (v *Libxml2Validator) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for k, h := range v.handlers {
		h.Free()
		delete(v.handlers, k)
	}
	xsdvalidate.Cleanup()
}

func levelSeverity(level int) validation.Severity {
	switch level {
	case 1:
		return validation.SeverityWarning
	case 3:
		return validation.SeverityFatal
	default:
		return validation.SeverityError
	}
}

var _ Validator = (*Libxml2Validator)(nil)
