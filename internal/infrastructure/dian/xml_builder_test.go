package dian_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
)

const (
	claveTecnica = "fc8eac422eba16e22ffd8c6f94b3f40a6e38162c354673d3a603956897890cd"
	cufeEsperado = "a464edd6ac8a32676a6643009d88f8c3b0fc8f51b2a56c94137143fe6d25da801da3058bd0a123e3d5660e8411ff84a0"
)

var emitida = time.Date(2023, 11, 29, 10, 15, 30, 0, time.FixedZone("COT", -5*60*60))

func build(t *testing.T, doc *dian.InvoiceDocument) (*xmldoc.Document, string) {
	t.Helper()
	res, err := dian.NewXMLBuilderService().BuildWithCUFE(doc)
	require.NoError(t, err, "la factura de ejemplo debe construirse")
	parsed, err := xmldoc.NewLoader(xmldoc.DefaultLimits()).Load(res.XML)
	require.NoError(t, err, "el XML generado debe ser bien formado")
	return parsed, res.CUFE
}

func text(doc *xmldoc.Document, expr string) string {
	return xmldoc.MustCompile(expr).Text(doc.Scope())
}

// ─────────────────────────────────────────────────────────────────────────────
// CUFE y encabezado
// ─────────────────────────────────────────────────────────────────────────────

func TestBuild_CUFEDelSetDePruebas(t *testing.T) {
	doc, cufe := build(t, dian.SampleInvoice(emitida, claveTecnica))

	assert.Equal(t, cufeEsperado, cufe, "el CUFE debe coincidir con el vector de referencia")
	assert.Equal(t, cufe, text(doc, "/Invoice/cbc:UUID"), "cbc:UUID debe llevar el CUFE")
	assert.Equal(t, "CUFE-SHA384", text(doc, "/Invoice/cbc:UUID/@schemeName"))
	assert.Equal(t, "SETP990000001", text(doc, "/Invoice/cbc:ID"))
	assert.Equal(t, "2023-11-29", text(doc, "/Invoice/cbc:IssueDate"))
	assert.Equal(t, "10:15:30-05:00", text(doc, "/Invoice/cbc:IssueTime"))
	assert.Equal(t, "2", text(doc, "/Invoice/cbc:ProfileExecutionID"))
}

func TestBuild_ExtensionesParaLaFirma(t *testing.T) {
	doc, _ := build(t, dian.SampleInvoice(emitida, claveTecnica))

	contents := xmldoc.MustCompile("/Invoice/ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent").Elements(doc.Scope())
	require.Len(t, contents, 2, "se esperan dos extensiones")
	assert.Equal(t, "18760000001", text(doc, "//sts:InvoiceAuthorization"))
	assert.Empty(t, contents[1].ChildElements(), "la segunda extensión queda vacía para ds:Signature")
	assert.Equal(t, "UBLExtensions", doc.Root().ChildElements()[0].Tag, "UBLExtensions debe ser el primer hijo")
}

// ─────────────────────────────────────────────────────────────────────────────
// Partes y totales
// ─────────────────────────────────────────────────────────────────────────────

func TestBuild_NITConDigitoDeVerificacion(t *testing.T) {
	doc, _ := build(t, dian.SampleInvoice(emitida, claveTecnica))

	base := "/Invoice/cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID"
	assert.Equal(t, "900123456", text(doc, base))
	assert.Equal(t, "31", text(doc, base+"/@schemeName"))
	assert.Equal(t, "8", text(doc, base+"/@schemeID"), "DV de 900123456 es 8")
	assert.Equal(t, "800987654",
		text(doc, "/Invoice/cac:AccountingCustomerParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID"))
}

func TestBuild_TotalesPorImpuesto(t *testing.T) {
	inv := dian.SampleInvoice(emitida, claveTecnica)
	inv.Lines = append(inv.Lines,
		dian.InvoiceLine{Description: "Consumo", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("50000"), TaxCode: "04", TaxPercent: decimal.NewFromInt(8)},
		dian.InvoiceLine{Description: "Extra", Quantity: decimal.RequireFromString("0.5"), UnitPrice: decimal.RequireFromString("10.01"), TaxPercent: decimal.NewFromInt(19)},
	)
	doc, _ := build(t, inv)

	totals := xmldoc.MustCompile("/Invoice/cac:TaxTotal").Elements(doc.Scope())
	require.Len(t, totals, 2, "un TaxTotal por código de impuesto")
	code := xmldoc.MustCompile("cac:TaxSubtotal/cac:TaxCategory/cac:TaxScheme/cbc:ID")
	amount := xmldoc.MustCompile("cbc:TaxAmount")
	assert.Equal(t, "01", code.Text(totals[0]))
	// la línea extra: subtotal 5.01, IVA 0.95
	assert.Equal(t, "190000.95", amount.Text(totals[0]))
	assert.Equal(t, "04", code.Text(totals[1]))
	assert.Equal(t, "8000.00", amount.Text(totals[1]))

	assert.Equal(t, "1100005.01", text(doc, "/Invoice/cac:LegalMonetaryTotal/cbc:LineExtensionAmount"))
	assert.Equal(t, "1298005.96", text(doc, "/Invoice/cac:LegalMonetaryTotal/cbc:PayableAmount"))
	assert.Equal(t, 3, xmldoc.MustCompile("/Invoice/cac:InvoiceLine").Count(doc.Scope()))
}

func TestBuild_EntradasInvalidas(t *testing.T) {
	svc := dian.NewXMLBuilderService()

	_, err := svc.Build(nil)
	assert.Error(t, err, "documento nulo")

	sinLineas := dian.SampleInvoice(emitida, claveTecnica)
	sinLineas.Lines = nil
	_, err = svc.Build(sinLineas)
	assert.Error(t, err, "una factura sin líneas no se construye")

	sinEmisor := dian.SampleInvoice(emitida, claveTecnica)
	sinEmisor.Supplier.CompanyID = "N/A"
	_, err = svc.Build(sinEmisor)
	assert.Error(t, err, "el emisor necesita identificación")
}
