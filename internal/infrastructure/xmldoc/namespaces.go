// Package xmldoc: carga segura de documentos XML y consultas por nombre local + namespace sobre etree.
package xmldoc

// Namespaces URIs de los documentos UBL 2.1 DIAN y de la firma XAdES.
const (
	NsInvoice  = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCbc      = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsCac      = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsExt      = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	NsDs       = "http://www.w3.org/2000/09/xmldsig#"
	NsXades    = "http://uri.etsi.org/01903/v1.3.2#"
	NsXades141 = "http://uri.etsi.org/01903/v1.4.1#"
	NsSts      = "dian:gov:co:facturaelectronica:Structures-2-1"
)

// Namespaces tabla fija prefijo → URI usada al compilar consultas.
// Los prefijos del documento no importan: se compara por URI.
var Namespaces = map[string]string{
	"cbc":      NsCbc,
	"cac":      NsCac,
	"ext":      NsExt,
	"ds":       NsDs,
	"xades":    NsXades,
	"xades141": NsXades141,
	"sts":      NsSts,
}

// NamespaceURI resuelve el prefijo; ok=false si no está en la tabla.
func NamespaceURI(prefix string) (string, bool) {
	uri, ok := Namespaces[prefix]
	return uri, ok
}
