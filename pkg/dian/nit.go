package dian

import "fmt"

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican de derecha a izquierda: el último dígito del NIT usa 3, el penúltimo 7, etc.
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// ComputeNITVerificationDigit calcula el dígito de verificación del NIT (sin DV).
// Acepta puntos y guiones; se consideran solo los dígitos (máximo 15).
func ComputeNITVerificationDigit(nit string) (byte, error) {
	digits := extractDigits(nit)
	if len(digits) == 0 {
		return 0, fmt.Errorf("dian: el NIT no contiene dígitos")
	}
	if len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("dian: NIT demasiado largo (%d dígitos, máximo %d)", len(digits), len(nitWeights))
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := digits[len(digits)-1-i]
		sum += int(d-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// extractDigits solo dígitos ASCII; otros sistemas numéricos de Unicode se ignoran.
func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return out
}
