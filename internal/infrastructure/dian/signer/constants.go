// Constantes para firma XAdES-EPES (Anexo Técnico 1.9 DIAN).

package signer

import (
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldsig"
)

// Namespaces y algoritmos XMLDSig / XAdES usados al firmar.
const (
	NamespaceDS    = xmldoc.NsDs
	NamespaceXAdES = xmldoc.NsXades
	AlgC14N        = string(dsig.CanonicalXML10RecAlgorithmId)
	AlgRSASHA256   = dsig.RSASHA256SignatureMethod
	AlgSHA256      = xmldsig.DigestSHA256

	TransformEnveloped = string(dsig.EnvelopedSignatureAltorithmId)
	TypeSignedProps    = "http://uri.etsi.org/01903#SignedProperties"
)

// Identificadores de los nodos de la firma; el sufijo distingue firmas del mismo proceso.
const (
	idSignature   = "xmldsig-%s"
	idRefDocument = "xmldsig-%s-ref0"
	idSigValue    = "xmldsig-%s-sigvalue"
	idKeyInfo     = "xmldsig-%s-keyinfo"
	idSignedProps = "xmldsig-%s-signedprops"
)

// Formato de xades:SigningTime (RFC 3339 con milisegundos y zona).
const signingTimeLayout = "2006-01-02T15:04:05.000-07:00"
