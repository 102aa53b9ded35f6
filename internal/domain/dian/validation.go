// Package dian contiene reglas de dominio para facturación electrónica DIAN (Colombia),
// según Anexo Técnico 1.9. Utiliza catálogos y reglas de pkg/dian.
package dian

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/dian-xml-validator/pkg/dian"
)

// ErrInvalidNIT agrupa errores de NIT del emisor.
var ErrInvalidNIT = errors.New("NIT inválido para DIAN")

// NITCheckDigitError el dígito de verificación declarado no coincide con el calculado.
type NITCheckDigitError struct {
	Expected string
	Received string
}

func (e *NITCheckDigitError) Error() string {
	return fmt.Sprintf("dígito de verificación esperado %s, recibido %s", e.Expected, e.Received)
}

func (e *NITCheckDigitError) Unwrap() error { return ErrInvalidNIT }

// CheckNITDigit valida el DV del NIT del emisor (cbc:CompanyID).
// Aplica solo cuando schemeName es NIT (31) y schemeID trae el dígito declarado.
// El resto de casos no son verificables y devuelven nil.
func CheckNITDigit(companyID, schemeName, schemeID string) error {
	if strings.TrimSpace(schemeName) != dian.IdentificationTypeNIT {
		return nil
	}
	received := strings.TrimSpace(schemeID)
	if received == "" || strings.TrimSpace(companyID) == "" {
		return nil
	}
	expected, err := dian.ComputeNITVerificationDigit(companyID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNIT, err)
	}
	if received != string(expected) {
		return &NITCheckDigitError{Expected: string(expected), Received: received}
	}
	return nil
}
