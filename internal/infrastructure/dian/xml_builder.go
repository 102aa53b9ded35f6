package dian

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	domdian "github.com/jhoicas/dian-xml-validator/internal/domain/dian"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/pkg/dian"
)

const (
	nsXsi                 = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocationInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2 http://docs.oasis-open.org/ubl/os-UBL-2.1/xsd/maindoc/UBL-Invoice-2.1.xsd"
	currencyCOP           = "COP"
	issueTimeLayout       = "15:04:05-07:00"
	dateLayout            = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// XMLBuilderService construye el XML UBL 2.1 de la factura (sin firma XAdES).
type XMLBuilderService struct {
	cufe *domdian.CufeCalculatorService
}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{cufe: domdian.NewCufeCalculatorService()}
}

// Build genera el []byte del documento Invoice según UBL 2.1 y extensiones DIAN.
func (s *XMLBuilderService) Build(doc *InvoiceDocument) ([]byte, error) {
	res, err := s.BuildWithCUFE(doc)
	if err != nil {
		return nil, err
	}
	return res.XML, nil
}

// BuildWithCUFE igual que Build pero devuelve también el CUFE calculado.
// cbc:UUID lleva el CUFE calculado con los mismos textos que quedan en el XML.
func (s *XMLBuilderService) BuildWithCUFE(doc *InvoiceDocument) (*BuildResult, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	totals := computeTotals(doc.Lines)

	issueDate := doc.IssuedAt.Format(dateLayout)
	issueTime := doc.IssuedAt.Format(issueTimeLayout)
	env := doc.Environment
	if env == "" {
		env = dian.EnvironmentTesting
	}
	supplierID := onlyDigits(doc.Supplier.CompanyID)
	customerID := onlyDigits(doc.Customer.CompanyID)

	taxes := domdian.NewTaxAccumulator()
	for _, t := range totals.taxes {
		taxes.Add(t.code, t.amount.StringFixed(2))
	}
	byCode := taxes.Totals()
	cufe, err := s.cufe.Calculate(&domdian.CufeParams{
		NumFac:   doc.ID(),
		FecFac:   issueDate,
		HorFac:   issueTime,
		ValFac:   totals.lineExtension.StringFixed(2),
		ValImp01: byCode[domdian.CodImpIVA],
		ValImp04: byCode[domdian.CodImpImpoconsumo],
		ValImp03: byCode[domdian.CodImpICA],
		ValTot:   totals.payable.StringFixed(2),
		NitFE:    supplierID,
		NumAdq:   customerID,
		ClTec:    doc.TechnicalKey,
		TipoAmb:  env,
	})
	if err != nil {
		return nil, fmt.Errorf("dian: calcular CUFE: %w", err)
	}

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)
	root := x.CreateElement("Invoice")
	root.CreateAttr("xmlns", xmldoc.NsInvoice)
	root.CreateAttr("xmlns:cac", xmldoc.NsCac)
	root.CreateAttr("xmlns:cbc", xmldoc.NsCbc)
	root.CreateAttr("xmlns:ext", xmldoc.NsExt)
	root.CreateAttr("xmlns:sts", xmldoc.NsSts)
	root.CreateAttr("xmlns:xsi", nsXsi)
	root.CreateAttr("xsi:schemaLocation", schemaLocationInvoice)

	// ext:UBLExtensions siempre como primer hijo: el firmador usa la segunda extensión
	writeUBLExtensions(root, doc.Resolution)

	cbc(root, "UBLVersionID", "UBL 2.1")
	cbc(root, "CustomizationID", dian.CustomizationGeneric)
	cbc(root, "ProfileID", dian.ProfileIDFacturaVenta)
	cbc(root, "ProfileExecutionID", env)
	cbc(root, "ID", doc.ID())
	uuid := cbc(root, "UUID", cufe)
	uuid.CreateAttr("schemeID", env)
	uuid.CreateAttr("schemeName", "CUFE-SHA384")
	cbc(root, "IssueDate", issueDate)
	cbc(root, "IssueTime", issueTime)
	if doc.DueDate != nil {
		cbc(root, "DueDate", doc.DueDate.Format(dateLayout))
	}
	cbc(root, "InvoiceTypeCode", dian.InvoiceTypeVenta)
	cbc(root, "DocumentCurrencyCode", currencyCOP)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(doc.Lines)))

	writeParty(root.CreateElement("cac:AccountingSupplierParty"), doc.Supplier, true)
	writeParty(root.CreateElement("cac:AccountingCustomerParty"), doc.Customer, false)
	writePaymentMeans(root, doc)
	for _, t := range totals.taxes {
		writeTaxTotal(root, t)
	}

	lmt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(lmt, "cbc:LineExtensionAmount", totals.lineExtension)
	amount(lmt, "cbc:TaxExclusiveAmount", totals.lineExtension)
	amount(lmt, "cbc:TaxInclusiveAmount", totals.payable)
	amount(lmt, "cbc:PayableAmount", totals.payable)

	for i, line := range doc.Lines {
		writeInvoiceLine(root, i+1, line, totals.lines[i])
	}

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("dian: serializar factura: %w", err)
	}
	return &BuildResult{XML: out, CUFE: cufe}, nil
}

func checkDocument(doc *InvoiceDocument) error {
	if doc == nil {
		return fmt.Errorf("dian: falta el documento")
	}
	if strings.TrimSpace(doc.Number) == "" {
		return fmt.Errorf("dian: el número de factura es obligatorio")
	}
	if doc.IssuedAt.IsZero() {
		return fmt.Errorf("dian: la fecha de emisión es obligatoria")
	}
	if onlyDigits(doc.Supplier.CompanyID) == "" || onlyDigits(doc.Customer.CompanyID) == "" {
		return fmt.Errorf("dian: faltan la identificación del emisor o del adquiriente")
	}
	if len(doc.Lines) == 0 {
		return fmt.Errorf("dian: la factura debe tener al menos una línea")
	}
	return nil
}

// ── Totales ─────────────────────────────────────────────────────────

type lineTotals struct {
	subtotal decimal.Decimal
	tax      decimal.Decimal
}

type subtotal struct {
	percent decimal.Decimal
	taxable decimal.Decimal
	amount  decimal.Decimal
}

type taxTotal struct {
	code      string
	amount    decimal.Decimal
	subtotals []subtotal
}

type invoiceTotals struct {
	lines         []lineTotals
	taxes         []taxTotal
	lineExtension decimal.Decimal
	payable       decimal.Decimal
}

// computeTotals redondea cada línea a dos decimales antes de sumar.
func computeTotals(lines []InvoiceLine) invoiceTotals {
	var t invoiceTotals
	byCode := map[string]*taxTotal{}
	for _, l := range lines {
		sub := l.Quantity.Mul(l.UnitPrice).Round(2)
		tax := sub.Mul(l.TaxPercent).Div(hundred).Round(2)
		t.lines = append(t.lines, lineTotals{subtotal: sub, tax: tax})
		t.lineExtension = t.lineExtension.Add(sub)
		t.payable = t.payable.Add(sub).Add(tax)

		code := lineTaxCode(l)
		tt, ok := byCode[code]
		if !ok {
			tt = &taxTotal{code: code}
			byCode[code] = tt
		}
		tt.amount = tt.amount.Add(tax)
		found := false
		for i := range tt.subtotals {
			if tt.subtotals[i].percent.Equal(l.TaxPercent) {
				tt.subtotals[i].taxable = tt.subtotals[i].taxable.Add(sub)
				tt.subtotals[i].amount = tt.subtotals[i].amount.Add(tax)
				found = true
				break
			}
		}
		if !found {
			tt.subtotals = append(tt.subtotals, subtotal{percent: l.TaxPercent, taxable: sub, amount: tax})
		}
	}
	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		t.taxes = append(t.taxes, *byCode[c])
	}
	return t
}

func lineTaxCode(l InvoiceLine) string {
	if l.TaxCode == "" {
		return dian.TaxCodeIVA
	}
	return l.TaxCode
}

// ── Escritura ───────────────────────────────────────────────────────

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, d decimal.Decimal) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currencyCOP)
	el.SetText(d.StringFixed(2))
}

// writeUBLExtensions extensión 1: DianExtensions (si hay resolución); extensión 2: vacía para ds:Signature.
func writeUBLExtensions(root *etree.Element, res *BillingResolution) {
	exts := root.CreateElement("ext:UBLExtensions")
	content := exts.CreateElement("ext:UBLExtension").CreateElement("ext:ExtensionContent")
	if res != nil {
		ic := content.CreateElement("sts:DianExtensions").CreateElement("sts:InvoiceControl")
		ic.CreateElement("sts:InvoiceAuthorization").SetText(res.Number)
		period := ic.CreateElement("sts:AuthorizationPeriod")
		period.CreateElement("cbc:StartDate").SetText(res.DateFrom.Format(dateLayout))
		period.CreateElement("cbc:EndDate").SetText(res.DateTo.Format(dateLayout))
		ai := ic.CreateElement("sts:AuthorizedInvoices")
		ai.CreateElement("sts:Prefix").SetText(res.Prefix)
		ai.CreateElement("sts:From").SetText(strconv.FormatInt(res.From, 10))
		ai.CreateElement("sts:To").SetText(strconv.FormatInt(res.To, 10))
	}
	exts.CreateElement("ext:UBLExtension").CreateElement("ext:ExtensionContent")
}

func writeParty(wrapper *etree.Element, p Party, supplier bool) {
	idType := p.IdentificationType
	if idType == "" {
		idType = dian.IdentificationTypeNIT
	}
	id := onlyDigits(p.CompanyID)
	if supplier {
		cbc(wrapper, "AdditionalAccountID", "1")
	}
	party := wrapper.CreateElement("cac:Party")
	cbc(party.CreateElement("cac:PartyName"), "Name", p.Name)
	if p.Address != "" {
		cbc(party.CreateElement("cac:PhysicalLocation").CreateElement("cac:Address"), "StreetName", p.Address)
	}

	pts := party.CreateElement("cac:PartyTaxScheme")
	cbc(pts, "RegistrationName", p.Name)
	companyID := cbc(pts, "CompanyID", id)
	companyID.CreateAttr("schemeAgencyID", "195")
	companyID.CreateAttr("schemeName", idType)
	if idType == dian.IdentificationTypeNIT {
		if dv, err := dian.ComputeNITVerificationDigit(id); err == nil {
			companyID.CreateAttr("schemeID", string(dv))
		}
	}
	level := p.TaxLevelCode
	if level == "" {
		level = dian.TaxLevelNoAplicaOtros
	}
	cbc(pts, "TaxLevelCode", level)
	scheme := pts.CreateElement("cac:TaxScheme")
	cbc(scheme, "ID", dian.TaxCodeIVA)
	cbc(scheme, "Name", dian.TaxNames[dian.TaxCodeIVA])
}

func writePaymentMeans(root *etree.Element, doc *InvoiceDocument) {
	form := doc.PaymentFormCode
	if form == "" {
		form = dian.PaymentFormContado
	}
	method := doc.PaymentMethodCode
	if method == "" {
		method = dian.PaymentMethodEfectivo
	}
	pm := root.CreateElement("cac:PaymentMeans")
	cbc(pm, "ID", form)
	cbc(pm, "PaymentMeansCode", method)
	if doc.DueDate != nil && form == dian.PaymentFormCredito {
		cbc(pm, "PaymentDueDate", doc.DueDate.Format(dateLayout))
	}
}

func writeTaxTotal(root *etree.Element, t taxTotal) {
	tt := root.CreateElement("cac:TaxTotal")
	amount(tt, "cbc:TaxAmount", t.amount)
	for _, s := range t.subtotals {
		ts := tt.CreateElement("cac:TaxSubtotal")
		amount(ts, "cbc:TaxableAmount", s.taxable)
		amount(ts, "cbc:TaxAmount", s.amount)
		cat := ts.CreateElement("cac:TaxCategory")
		cbc(cat, "Percent", s.percent.StringFixed(2))
		scheme := cat.CreateElement("cac:TaxScheme")
		cbc(scheme, "ID", t.code)
		if name, ok := dian.TaxNames[t.code]; ok {
			cbc(scheme, "Name", name)
		}
	}
}

func writeInvoiceLine(root *etree.Element, n int, line InvoiceLine, lt lineTotals) {
	unitCode := line.UnitCode
	if unitCode == "" {
		unitCode = dian.UnitUnit
	}
	il := root.CreateElement("cac:InvoiceLine")
	cbc(il, "ID", strconv.Itoa(n))
	cbc(il, "InvoicedQuantity", line.Quantity.StringFixed(2)).CreateAttr("unitCode", unitCode)
	amount(il, "cbc:LineExtensionAmount", lt.subtotal)

	tt := il.CreateElement("cac:TaxTotal")
	amount(tt, "cbc:TaxAmount", lt.tax)
	ts := tt.CreateElement("cac:TaxSubtotal")
	amount(ts, "cbc:TaxableAmount", lt.subtotal)
	amount(ts, "cbc:TaxAmount", lt.tax)
	cat := ts.CreateElement("cac:TaxCategory")
	cbc(cat, "Percent", line.TaxPercent.StringFixed(2))
	cbc(cat.CreateElement("cac:TaxScheme"), "ID", lineTaxCode(line))

	item := il.CreateElement("cac:Item")
	desc := line.Description
	if desc == "" {
		desc = "Item " + strconv.Itoa(n)
	}
	cbc(item, "Description", desc)
	if line.ProductCode != "" {
		cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", line.ProductCode)
	}

	price := il.CreateElement("cac:Price")
	amount(price, "cbc:PriceAmount", line.UnitPrice)
	cbc(price, "BaseQuantity", "1").CreateAttr("unitCode", unitCode)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
