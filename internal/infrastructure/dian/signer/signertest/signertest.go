// Package signertest: certificados RSA generados en memoria y documentos mínimos para pruebas de firma.
package signertest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

// CertOptions atributos del certificado autofirmado.
type CertOptions struct {
	CommonName   string
	Organization string
	NotBefore    time.Time
	NotAfter     time.Time
	KeyUsage     x509.KeyUsage
}

// DefaultCertOptions certificado vigente (±1 año alrededor de now) emitido por CERTICAMARA con no repudio.
func DefaultCertOptions(now time.Time) CertOptions {
	return CertOptions{
		CommonName:   "Facturador de Pruebas",
		Organization: "CERTICAMARA S.A.",
		NotBefore:    now.AddDate(-1, 0, 0),
		NotAfter:     now.AddDate(1, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment,
	}
}

// NewCertificate genera llave RSA 2048 y certificado autofirmado SHA256-RSA.
func NewCertificate(tb testing.TB, opts CertOptions) tls.Certificate {
	tb.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("generar llave RSA: %v", err)
	}
	name := pkix.Name{CommonName: opts.CommonName, Country: []string{"CO"}}
	if opts.Organization != "" {
		name.Organization = []string{opts.Organization}
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               name,
		Issuer:                name,
		NotBefore:             opts.NotBefore,
		NotAfter:              opts.NotAfter,
		KeyUsage:              opts.KeyUsage,
		BasicConstraintsValid: true,
		SignatureAlgorithm:    x509.SHA256WithRSA,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		tb.Fatalf("crear certificado: %v", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("parsear certificado: %v", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}
}

// UnsignedInvoice factura UBL mínima con dos UBLExtension; la segunda recibe la firma.
const UnsignedInvoice = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"` +
	` xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"` +
	` xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"` +
	` xmlns:ext="urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"` +
	` xmlns:sts="dian:gov:co:facturaelectronica:Structures-2-1">` +
	`<ext:UBLExtensions>` +
	`<ext:UBLExtension><ext:ExtensionContent><sts:DianExtensions><sts:InvoiceControl><sts:InvoiceAuthorization>18760000001</sts:InvoiceAuthorization></sts:InvoiceControl></sts:DianExtensions></ext:ExtensionContent></ext:UBLExtension>` +
	`<ext:UBLExtension><ext:ExtensionContent/></ext:UBLExtension>` +
	`</ext:UBLExtensions>` +
	`<cbc:UBLVersionID>UBL 2.1</cbc:UBLVersionID>` +
	`<cbc:ID>SETP990000001</cbc:ID>` +
	`<cbc:IssueDate>2024-01-15</cbc:IssueDate>` +
	`<cac:LegalMonetaryTotal><cbc:PayableAmount currencyID="COP">1190000.00</cbc:PayableAmount></cac:LegalMonetaryTotal>` +
	`</Invoice>`
