package validator

import (
	"github.com/jhoicas/dian-xml-validator/internal/domain/dian"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
)

// ExtractTaxes suma cbc:TaxAmount de cada /Invoice/cac:TaxTotal por código de impuesto.
// El resultado siempre trae 01, 03 y 04 con dos decimales.
func ExtractTaxes(doc *xmldoc.Document) map[string]string {
	acc := dian.NewTaxAccumulator()
	if doc == nil {
		return acc.Totals()
	}
	for _, total := range qTaxTotals.Elements(doc.Scope()) {
		acc.Add(qTaxSchemeID.Text(total), qTaxAmount.Text(total))
	}
	return acc.Totals()
}
