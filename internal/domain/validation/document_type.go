package validation

import "strings"

// DocumentType tipo de documento electrónico soportado, con su esquema XSD.
type DocumentType struct {
	Name       string
	SchemaPath string
}

var (
	Invoice          = DocumentType{Name: "INVOICE", SchemaPath: "xsd/factura/maindoc/UBL-Invoice-2.1.xsd"}
	CreditNote       = DocumentType{Name: "CREDIT_NOTE", SchemaPath: "xsd/factura/maindoc/UBL-CreditNote-2.1.xsd"}
	DebitNote        = DocumentType{Name: "DEBIT_NOTE", SchemaPath: "xsd/factura/maindoc/UBL-DebitNote-2.1.xsd"}
	DocumentoSoporte = DocumentType{Name: "DOCUMENTO_SOPORTE", SchemaPath: "xsd/documento-soporte/maindoc/UBL-Invoice-2.1.xsd"}
)

var documentTypes = []DocumentType{Invoice, CreditNote, DebitNote, DocumentoSoporte}

// DocumentTypes devuelve una copia de los tipos soportados.
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

// LookupDocumentType busca el tipo por nombre sin distinguir mayúsculas.
func LookupDocumentType(name string) (DocumentType, bool) {
	name = strings.TrimSpace(name)
	for _, dt := range documentTypes {
		if strings.EqualFold(dt.Name, name) {
			return dt, true
		}
	}
	return DocumentType{}, false
}
