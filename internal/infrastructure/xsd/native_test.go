package xsd_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xsd"
)

const invoicePath = "xsd/factura/maindoc/UBL-Invoice-2.1.xsd"

const invoiceSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
           elementFormDefault="qualified">
  <xs:element name="Invoice">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="ID" type="xs:string"/>
        <xs:element name="Total" type="xs:decimal"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func schemas() fstest.MapFS {
	return fstest.MapFS{
		invoicePath:        &fstest.MapFile{Data: []byte(invoiceSchema)},
		"xsd/roto/bad.xsd": &fstest.MapFile{Data: []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="a" type="xs:noExiste"/></xs:schema>`)},
	}
}

func TestNativeValidator_DocumentoValido(t *testing.T) {
	v := xsd.NewNativeValidator(schemas())
	doc := `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"><ID>F1</ID><Total>10.50</Total></Invoice>`

	findings, err := v.Validate(context.Background(), []byte(doc), invoicePath)

	require.NoError(t, err)
	assert.Empty(t, findings, "un documento conforme no genera hallazgos")
}

func TestNativeValidator_ViolacionesSonHallazgos(t *testing.T) {
	v := xsd.NewNativeValidator(schemas())
	doc := `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"><ID>F1</ID><Total>diez</Total></Invoice>`

	findings, err := v.Validate(context.Background(), []byte(doc), invoicePath)

	require.NoError(t, err, "las violaciones de contenido nunca son errores")
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, validation.StageXSD, f.Stage)
		assert.GreaterOrEqual(t, f.Severity, validation.SeverityError)
	}
}

func TestNativeValidator_EsquemaEnCache(t *testing.T) {
	v := xsd.NewNativeValidator(schemas())
	doc := []byte(`<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"><ID>F1</ID><Total>1</Total></Invoice>`)

	for i := 0; i < 3; i++ {
		findings, err := v.Validate(context.Background(), doc, invoicePath)
		require.NoError(t, err)
		assert.Empty(t, findings)
	}
}

func TestNativeValidator_XSDNoEncontrado(t *testing.T) {
	v := xsd.NewNativeValidator(schemas())

	findings, err := v.Validate(context.Background(), []byte("<Invoice/>"), "xsd/no/existe.xsd")

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, validation.SeverityFatal, findings[0].Severity)
	assert.Equal(t, "XSD no encontrado: xsd/no/existe.xsd", findings[0].Message)
}

func TestNativeValidator_EsquemaInvalidoEsErrorTecnico(t *testing.T) {
	v := xsd.NewNativeValidator(schemas())

	_, err := v.Validate(context.Background(), []byte("<a/>"), "xsd/roto/bad.xsd")

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "xsd: compilar esquema"), err.Error())
}

func TestNativeValidator_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := xsd.NewNativeValidator(schemas()).Validate(ctx, []byte("<Invoice/>"), invoicePath)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_MotorDesconocido(t *testing.T) {
	_, err := xsd.New("saxon", "./resources")
	assert.Error(t, err)

	v, err := xsd.New("", "./resources")
	require.NoError(t, err)
	assert.IsType(t, &xsd.NativeValidator{}, v)
}
