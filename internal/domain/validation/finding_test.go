package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Severidad y resultado
// ─────────────────────────────────────────────────────────────────────────────

func TestSeverity_OrdenTotal(t *testing.T) {
	assert.Less(t, validation.SeverityInfo, validation.SeverityWarning)
	assert.Less(t, validation.SeverityWarning, validation.SeverityError)
	assert.Less(t, validation.SeverityError, validation.SeverityFatal)
	assert.Equal(t, "FATAL", validation.SeverityFatal.String())
}

func TestNewResult_SinHallazgosEsValido(t *testing.T) {
	r := validation.NewResult(nil)

	assert.True(t, r.Valid)
	assert.Empty(t, r.Findings)
	assert.NotNil(t, r.Findings, "findings debe serializarse como lista vacía")
	assert.Equal(t, validation.SeverityInfo, r.MaxSeverity)
}

func TestNewResult_SoloWarningEsInvalido(t *testing.T) {
	r := validation.NewResult([]validation.Finding{
		validation.NewFinding(validation.StageSemantic, validation.SeverityWarning, "aviso"),
	})

	assert.False(t, r.Valid, "cualquier hallazgo invalida el documento")
	assert.Equal(t, validation.SeverityWarning, r.MaxSeverity)
}

func TestMaxSeverity_EscogeLaMayor(t *testing.T) {
	findings := []validation.Finding{
		validation.NewFinding(validation.StageXSD, validation.SeverityWarning, "a"),
		validation.NewFinding(validation.StageXSD, validation.SeverityFatal, "b"),
		validation.NewFinding(validation.StageSemantic, validation.SeverityError, "c"),
	}
	assert.Equal(t, validation.SeverityFatal, validation.MaxSeverity(findings))

	onlyInfo := []validation.Finding{validation.NewFinding(validation.StageXSD, validation.SeverityInfo, "i")}
	assert.Equal(t, validation.SeverityInfo, validation.MaxSeverity(onlyInfo))
}

func TestResult_Messages(t *testing.T) {
	r := validation.NewResult([]validation.Finding{
		validation.Errorf(validation.StageSemantic, "Invoice ID es obligatorio"),
	})
	assert.Equal(t, []string{"ERROR: Invoice ID es obligatorio"}, r.Messages())
}

func TestFinding_JSON(t *testing.T) {
	f := validation.Errorf(validation.StageSignature, "La firma digital es inválida")

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"ERROR","message":"La firma digital es inválida","type":"SIGNATURE"}`, string(b))

	var sev validation.Severity
	require.NoError(t, sev.UnmarshalText([]byte("warning")))
	assert.Equal(t, validation.SeverityWarning, sev)
	assert.Error(t, sev.UnmarshalText([]byte("CRITICO")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Tipos de documento
// ─────────────────────────────────────────────────────────────────────────────

func TestLookupDocumentType_SinDistinguirMayusculas(t *testing.T) {
	dt, ok := validation.LookupDocumentType("credit_note")
	require.True(t, ok)
	assert.Equal(t, "xsd/factura/maindoc/UBL-CreditNote-2.1.xsd", dt.SchemaPath)

	dt, ok = validation.LookupDocumentType(" DOCUMENTO_SOPORTE ")
	require.True(t, ok)
	assert.Equal(t, "xsd/documento-soporte/maindoc/UBL-Invoice-2.1.xsd", dt.SchemaPath)
}

func TestLookupDocumentType_Desconocido(t *testing.T) {
	_, ok := validation.LookupDocumentType("UNKNOWN")
	assert.False(t, ok)
	assert.Len(t, validation.DocumentTypes(), 4)
}
