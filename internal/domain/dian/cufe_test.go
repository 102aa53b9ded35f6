package dian_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/internal/domain/dian"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestCalculateCufe valida que el cálculo SHA-384 del CUFE produce el hash
// exacto esperado para parámetros conocidos.
//
// Vector de prueba calculado con sha384sum:
//
//	Cadena = NumFac + FecFac + HorFac + ValFac + "01" + ValImp01 + "04" + ValImp04 +
//	         "03" + ValImp03 + ValTot + NitFE + NumAdq + ClTec + TipoAmb
//	       = "SETP990000001" + "2023-11-29" + "10:15:30-05:00" + "1000000.00" +
//	         "01" + "190000.00" + "04" + "0.00" + "03" + "0.00" +
//	         "1190000.00" + "900123456" + "800987654" +
//	         "fc8eac422eba16e22ffd8c6f94b3f40a6e38162c354673d3a603956897890cd" + "2"
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCufeExpected = "a464edd6ac8a32676a6643009d88f8c3b0fc8f51b2a56c94137143fe6d25da801da3058bd0a123e3d5660e8411ff84a0"

	testClTec = "fc8eac422eba16e22ffd8c6f94b3f40a6e38162c354673d3a603956897890cd"
)

func buildTestParams() *dian.CufeParams {
	return &dian.CufeParams{
		NumFac:   "SETP990000001",
		FecFac:   "2023-11-29",
		HorFac:   "10:15:30-05:00",
		ValFac:   "1000000.00",
		ValImp01: "190000.00",
		ValImp04: "0.00",
		ValImp03: "0.00",
		ValTot:   "1190000.00",
		NitFE:    "900123456",
		NumAdq:   "800987654",
		ClTec:    testClTec,
		TipoAmb:  "2",
	}
}

func TestCalculateCufe_VectorExacto(t *testing.T) {
	svc := dian.NewCufeCalculatorService()

	cufe, err := svc.Calculate(buildTestParams())
	require.NoError(t, err, "Calculate no debe retornar error con parámetros válidos")

	assert.Equal(t, testCufeExpected, cufe,
		"CUFE calculado no coincide con el vector de prueba.\n"+
			"Revisar: orden de concatenación o algoritmo SHA-384.")
}

func TestCalculateCufe_Formato(t *testing.T) {
	cufe, err := dian.NewCufeCalculatorService().Calculate(buildTestParams())
	require.NoError(t, err)

	assert.Len(t, cufe, 96, "SHA-384 en hex debe tener 96 caracteres")
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{96}$`), cufe, "el CUFE debe ir en hexadecimal minúscula")
}

func TestCalculateCufe_DeterministaIgual(t *testing.T) {
	svc := dian.NewCufeCalculatorService()

	a, err := svc.Calculate(buildTestParams())
	require.NoError(t, err)
	b, err := svc.Calculate(buildTestParams())
	require.NoError(t, err)

	assert.Equal(t, a, b, "mismos parámetros deben producir el mismo CUFE")
}

func TestCalculateCufe_SensibleACadaCampo(t *testing.T) {
	svc := dian.NewCufeCalculatorService()
	base, err := svc.Calculate(buildTestParams())
	require.NoError(t, err)

	mutations := map[string]func(p *dian.CufeParams){
		"NumFac":   func(p *dian.CufeParams) { p.NumFac = "SETP990000002" },
		"HorFac":   func(p *dian.CufeParams) { p.HorFac = "10:15:31-05:00" },
		"ValImp01": func(p *dian.CufeParams) { p.ValImp01 = "190000.01" },
		"ValImp03": func(p *dian.CufeParams) { p.ValImp03 = "1.00" },
		"NumAdq":   func(p *dian.CufeParams) { p.NumAdq = "800987655" },
		"ClTec":    func(p *dian.CufeParams) { p.ClTec = "otra" },
		"TipoAmb":  func(p *dian.CufeParams) { p.TipoAmb = "1" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := buildTestParams()
			mutate(p)
			got, err := svc.Calculate(p)
			require.NoError(t, err)
			assert.NotEqual(t, base, got, "cambiar %s debe cambiar el CUFE", name)
		})
	}
}

func TestCufeParams_Chain_OrdenEstricto(t *testing.T) {
	chain := buildTestParams().Chain()

	assert.Equal(t,
		"SETP9900000012023-11-2910:15:30-05:001000000.0001190000.00040.00030.001190000.00900123456800987654"+testClTec+"2",
		chain)
}

func TestCalculateCufe_ParamsNil(t *testing.T) {
	_, err := dian.NewCufeCalculatorService().Calculate(nil)
	assert.ErrorIs(t, err, dian.ErrNilInput)

	_, err = dian.SHA384Hex(nil)
	assert.ErrorIs(t, err, dian.ErrNilInput)
}

func TestSHA384Hex_CadenaVacia(t *testing.T) {
	got, err := dian.SHA384Hex([]byte{})
	require.NoError(t, err)
	assert.Equal(t, "38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b", got)
}

func TestCufeMatches_SinDistinguirMayusculas(t *testing.T) {
	assert.True(t, dian.CufeMatches(strings.ToUpper(testCufeExpected), testCufeExpected))
	assert.True(t, dian.CufeMatches(" "+testCufeExpected+" ", testCufeExpected))
	assert.False(t, dian.CufeMatches("abc", testCufeExpected))
}
