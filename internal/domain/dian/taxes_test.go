package dian_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dian-xml-validator/internal/domain/dian"
)

func TestNormalizeAmount(t *testing.T) {
	cases := map[string]string{
		"190000":       "190000.00",
		"1,190,000.5":  "1190000.50",
		" 12.345 ":     "12.35",
		"2.675":        "2.68",
		"-2.675":       "-2.68",
		"":             "0.00",
		"   ":          "0.00",
		"no-es-numero": "0.00",
		"+5":           "0.00",
		".5":           "0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, dian.NormalizeAmount(in), "entrada %q", in)
	}
}

func TestTaxAccumulator_SumaCodigosRepetidos(t *testing.T) {
	acc := dian.NewTaxAccumulator()
	acc.Add("01", "100")
	acc.Add(" 01 ", "50.00")

	totals := acc.Totals()
	assert.Equal(t, "150.00", totals["01"])
	assert.Equal(t, "0.00", totals["03"])
	assert.Equal(t, "0.00", totals["04"])
}

func TestTaxAccumulator_SinImpuestos(t *testing.T) {
	totals := dian.NewTaxAccumulator().Totals()

	assert.Equal(t, map[string]string{"01": "0.00", "03": "0.00", "04": "0.00"}, totals)
}

func TestTaxAccumulator_IgnoraCodigoVacio(t *testing.T) {
	acc := dian.NewTaxAccumulator()
	acc.Add("", "999")
	acc.Add("05", "12,5")

	assert.Len(t, acc.Totals(), 4, "01, 03, 04 y 05; el código vacío no se acumula")
	assert.Equal(t, "125.00", acc.Totals()["05"], "la coma se trata como separador de miles")
}

func TestNormalizeAmount_NotacionExponencialEsIlegible(t *testing.T) {
	for _, in := range []string{"1e100000000", "1E5", "2.5e-3", "1e2000000", "NaN", "Infinity", "0x10"} {
		start := time.Now()
		assert.Equal(t, "0.00", dian.NormalizeAmount(in), "entrada %q", in)
		assert.Less(t, time.Since(start), 100*time.Millisecond, "la entrada %q no debe expandirse", in)
	}
}

func TestTaxAccumulator_ExponenteNoSeExpande(t *testing.T) {
	acc := dian.NewTaxAccumulator()
	acc.Add("01", "1e100000000")
	acc.Add("01", "190000.00")

	assert.Equal(t, "190000.00", acc.Totals()["01"])
}
