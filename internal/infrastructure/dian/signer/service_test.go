package signer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian/signer"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian/signer/signertest"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldsig"
)

var signingNow = time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC)

func bogota(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("COT", -5*60*60)
}

func signSample(t *testing.T) []byte {
	t.Helper()
	cert := signertest.NewCertificate(t, signertest.DefaultCertOptions(signingNow))
	svc := signer.NewDigitalSignatureService(clockwork.NewFakeClockAt(signingNow), bogota(t))

	signed, err := svc.Sign([]byte(signertest.UnsignedInvoice), cert)
	require.NoError(t, err, "Sign no debe fallar con un certificado RSA válido")
	return signed
}

// ─────────────────────────────────────────────────────────────────────────────
// Firma XAdES-EPES
// ─────────────────────────────────────────────────────────────────────────────

func TestSign_FirmaVerificable(t *testing.T) {
	signed := signSample(t)

	doc, err := xmldoc.NewLoader(xmldoc.DefaultLimits()).Load(signed)
	require.NoError(t, err)

	sigs := xmldoc.MustCompile("//ds:Signature").Elements(doc.Scope())
	require.Len(t, sigs, 1, "debe existir exactamente una firma")
	assert.NoError(t, xmldsig.Verify(sigs[0]), "la firma generada debe verificar")
}

func TestSign_UbicadaEnSegundoExtensionContent(t *testing.T) {
	signed := signSample(t)
	doc, err := xmldoc.NewLoader(xmldoc.DefaultLimits()).Load(signed)
	require.NoError(t, err)

	contents := xmldoc.MustCompile("/Invoice/ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent").Elements(doc.Scope())
	require.Len(t, contents, 2)
	assert.Equal(t, 0, xmldoc.MustCompile("ds:Signature").Count(contents[0]))
	assert.Equal(t, 1, xmldoc.MustCompile("ds:Signature").Count(contents[1]))
}

func TestSign_CamposXAdES(t *testing.T) {
	signed := signSample(t)
	doc, err := xmldoc.NewLoader(xmldoc.DefaultLimits()).Load(signed)
	require.NoError(t, err)
	scope := doc.Scope()

	assert.Equal(t, "https://facturaelectronica.dian.gov.co/politicadefirma/v2/politicadefirmav2.pdf",
		xmldoc.MustCompile("//xades:SigPolicyId/xades:Identifier").Text(scope))
	assert.Equal(t, "2024-01-15T10:30:00.000-05:00", xmldoc.MustCompile("//xades:SigningTime").Text(scope),
		"SigningTime en hora de Colombia")
	assert.Equal(t, "supplier", xmldoc.MustCompile("//xades:SignerRole/xades:ClaimedRoles/xades:ClaimedRole").Text(scope))
	assert.Equal(t, []string{
		"http://www.w3.org/2001/04/xmlenc#sha256",
		"http://www.w3.org/2001/04/xmlenc#sha256",
		"http://www.w3.org/2001/04/xmlenc#sha256",
	}, xmldoc.MustCompile("//ds:Reference/ds:DigestMethod/@Algorithm").Values(scope), "tres referencias SHA-256")
	assert.Equal(t, "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256",
		xmldoc.MustCompile("//ds:SignatureMethod/@Algorithm").Text(scope))
}

func TestSign_RolTercero(t *testing.T) {
	cert := signertest.NewCertificate(t, signertest.DefaultCertOptions(signingNow))
	svc := signer.NewDigitalSignatureService(clockwork.NewFakeClockAt(signingNow), nil).WithRole("third party")

	signed, err := svc.Sign([]byte(signertest.UnsignedInvoice), cert)
	require.NoError(t, err)
	assert.Contains(t, string(signed), ">third party</xades:ClaimedRole>")
}

func TestSign_SinSegundoExtensionContent(t *testing.T) {
	cert := signertest.NewCertificate(t, signertest.DefaultCertOptions(signingNow))
	xml := strings.Replace(signertest.UnsignedInvoice, `<ext:UBLExtension><ext:ExtensionContent/></ext:UBLExtension>`, "", 1)

	_, err := signer.NewDigitalSignatureService(nil, nil).Sign([]byte(xml), cert)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "segundo ext:ExtensionContent")
}

func TestSign_EntradasInvalidas(t *testing.T) {
	svc := signer.NewDigitalSignatureService(nil, nil)
	cert := signertest.NewCertificate(t, signertest.DefaultCertOptions(signingNow))

	_, err := svc.Sign(nil, cert)
	assert.Error(t, err, "XML vacío")

	cert.PrivateKey = nil
	_, err = svc.Sign([]byte(signertest.UnsignedInvoice), cert)
	assert.Error(t, err, "sin llave privada RSA")
}

func TestSign_DosFirmasIndependientes(t *testing.T) {
	a := signSample(t)
	b := signSample(t)

	da := etree.NewDocument()
	require.NoError(t, da.ReadFromBytes(a))
	db := etree.NewDocument()
	require.NoError(t, db.ReadFromBytes(b))
	idA := xmldoc.MustCompile("//ds:Signature/@Id").Text(&da.Element)
	idB := xmldoc.MustCompile("//ds:Signature/@Id").Text(&db.Element)
	assert.NotEqual(t, idA, idB, "cada firma lleva su propio Id")
}
