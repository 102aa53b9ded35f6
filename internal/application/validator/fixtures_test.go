package validator_test

import (
	"crypto/tls"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/internal/application/validator"
	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
	infradian "github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian/signer"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian/signer/signertest"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
)

const claveTecnica = "fc8eac422eba16e22ffd8c6f94b3f40a6e38162c354673d3a603956897890cd"

var (
	bogota  = validator.BogotaLocation()
	emitida = time.Date(2023, 11, 29, 10, 15, 30, 0, bogota)
	// reloj de las pruebas: un día hábil después de la emisión
	ahora = time.Date(2023, 11, 30, 9, 0, 0, 0, bogota)
)

// facturaSinFirma factura de ejemplo con CUFE correcto para claveTecnica.
func facturaSinFirma(t *testing.T) (xml string, cufe string) {
	t.Helper()
	res, err := infradian.NewXMLBuilderService().BuildWithCUFE(infradian.SampleInvoice(emitida, claveTecnica))
	require.NoError(t, err, "la factura de ejemplo debe construirse")
	return string(res.XML), res.CUFE
}

func firmar(t *testing.T, xml string, cert tls.Certificate, role string) string {
	t.Helper()
	svc := signer.NewDigitalSignatureService(clockwork.NewFakeClockAt(ahora), bogota)
	if role != "" {
		svc = svc.WithRole(role)
	}
	signed, err := svc.Sign([]byte(xml), cert)
	require.NoError(t, err, "la firma de prueba debe generarse")
	return string(signed)
}

// facturaFirmada factura con CUFE correcto firmada con un certificado vigente de CERTICAMARA.
func facturaFirmada(t *testing.T) string {
	t.Helper()
	xml, _ := facturaSinFirma(t)
	return firmar(t, xml, signertest.NewCertificate(t, signertest.DefaultCertOptions(ahora)), "")
}

func cargar(t *testing.T, xml string) *xmldoc.Document {
	t.Helper()
	doc, err := xmldoc.NewLoader(xmldoc.DefaultLimits()).Load([]byte(xml))
	require.NoError(t, err, "el documento de prueba debe cargar")
	return doc
}

func reemplazar(t *testing.T, xml, old, new string) string {
	t.Helper()
	require.Contains(t, xml, old, "el fragmento a reemplazar debe existir en el documento")
	return strings.Replace(xml, old, new, 1)
}

func mensajes(findings []validation.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Message)
	}
	return out
}

func nuevoSemantico() *validator.SemanticValidator {
	return validator.NewSemanticValidator(clockwork.NewFakeClockAt(ahora), bogota)
}

func nuevoFirma(clock clockwork.Clock) *validator.SignatureValidator {
	return validator.NewSignatureValidator(clock, zerolog.Nop())
}
