//go:build !libxml2

package xsd

import (
	"context"
	"errors"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
)

// ErrLibxml2Unavailable el binario se compiló sin -tags libxml2.
var ErrLibxml2Unavailable = errors.New("xsd: motor libxml2 no disponible (compilar con -tags libxml2)")

// Libxml2Validator sin soporte en esta compilación.
type Libxml2Validator struct{}

// NewLibxml2Validator siempre falla sin el tag libxml2.
func NewLibxml2Validator(string) (*Libxml2Validator, error) {
	return nil, ErrLibxml2Unavailable
}

func (*Libxml2Validator) Validate(context.Context, []byte, string) ([]validation.Finding, error) {
	return nil, ErrLibxml2Unavailable
}

func (*Libxml2Validator) Close() {}
