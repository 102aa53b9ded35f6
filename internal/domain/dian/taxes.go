package dian

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ZeroAmount monto por defecto para impuestos ausentes o ilegibles.
const ZeroAmount = "0.00"

// plainAmount solo notación decimal simple, sin exponente ni signo +.
var plainAmount = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// NormalizeAmount quita separadores de miles (coma) y deja el monto con dos decimales.
// Vacío, ilegible o en notación exponencial → "0.00". El redondeo es half away from zero.
func NormalizeAmount(raw string) string {
	d, ok := parseAmount(raw)
	if !ok {
		return ZeroAmount
	}
	return d.StringFixed(2)
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if !plainAmount.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// TaxAccumulator suma montos por código de impuesto en el orden de llegada.
type TaxAccumulator struct {
	totals map[string]decimal.Decimal
}

func NewTaxAccumulator() *TaxAccumulator {
	return &TaxAccumulator{totals: make(map[string]decimal.Decimal)}
}

// Add acumula el monto crudo para el código. Códigos vacíos se ignoran.
func (a *TaxAccumulator) Add(code, rawAmount string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	// mismo tratamiento que NormalizeAmount: se suma el valor ya redondeado
	d, _ := decimal.NewFromString(NormalizeAmount(rawAmount))
	a.totals[code] = a.totals[code].Add(d)
}

// Totals devuelve código → monto con dos decimales, garantizando 01, 03 y 04.
func (a *TaxAccumulator) Totals() map[string]string {
	out := make(map[string]string, len(a.totals)+3)
	for code, d := range a.totals {
		out[code] = d.StringFixed(2)
	}
	for _, code := range []string{CodImpIVA, CodImpICA, CodImpImpoconsumo} {
		if _, ok := out[code]; !ok {
			out[code] = ZeroAmount
		}
	}
	return out
}
