package xmldsig

import (
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Errores de verificación.
var (
	ErrMalformedSignature   = errors.New("xmldsig: estructura de firma incompleta")
	ErrUnsupportedAlgorithm = errors.New("xmldsig: algoritmo no soportado")
	ErrReferenceNotFound    = errors.New("xmldsig: referencia no encontrada")
	ErrDigestMismatch       = errors.New("xmldsig: el resumen de la referencia no coincide")
	ErrSignatureMismatch    = errors.New("xmldsig: SignatureValue no corresponde a SignedInfo")
	ErrNoCertificate        = errors.New("xmldsig: la firma no incluye X509Certificate")
)

// Certificate extrae el primer ds:X509Certificate de ds:KeyInfo.
func Certificate(signature *etree.Element) (*x509.Certificate, error) {
	keyInfo := dsChild(signature, dsig.KeyInfoTag)
	data := dsChild(keyInfo, dsig.X509DataTag)
	certEl := dsChild(data, dsig.X509CertificateTag)
	if certEl == nil {
		return nil, ErrNoCertificate
	}
	b64 := compact(certEl.Text())
	if b64 == "" {
		return nil, ErrNoCertificate
	}
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("xmldsig: X509Certificate no es base64 válido: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("xmldsig: X509Certificate inválido: %w", err)
	}
	return cert, nil
}

// Verify valida todas las referencias y el SignatureValue con la llave del certificado embebido.
func Verify(signature *etree.Element) error {
	cert, err := Certificate(signature)
	if err != nil {
		return err
	}
	return VerifyWithCertificate(signature, cert)
}

// VerifyWithCertificate igual que Verify con un certificado dado.
// Cada ds:Reference se resuelve por separado: URI "" es el documento completo y "#id"
// el elemento cuyo atributo Id/ID/id coincide.
func VerifyWithCertificate(signature *etree.Element, cert *x509.Certificate) error {
	signedInfo := dsChild(signature, dsig.SignedInfoTag)
	if signedInfo == nil {
		return fmt.Errorf("%w: falta SignedInfo", ErrMalformedSignature)
	}
	refs := dsChildren(signedInfo, dsig.ReferenceTag)
	if len(refs) == 0 {
		return fmt.Errorf("%w: SignedInfo sin referencias", ErrMalformedSignature)
	}
	for _, ref := range refs {
		if err := VerifyReference(signature, ref); err != nil {
			return err
		}
	}

	c14nEl := dsChild(signedInfo, dsig.CanonicalizationMethodTag)
	if c14nEl == nil {
		return fmt.Errorf("%w: falta CanonicalizationMethod", ErrMalformedSignature)
	}
	canon, err := Canonicalizer(c14nEl.SelectAttrValue(dsig.AlgorithmAttr, ""), prefixList(c14nEl))
	if err != nil {
		return err
	}
	signed, err := Canonicalize(signedInfo, canon, nil)
	if err != nil {
		return err
	}

	methodEl := dsChild(signedInfo, dsig.SignatureMethodTag)
	if methodEl == nil {
		return fmt.Errorf("%w: falta SignatureMethod", ErrMalformedSignature)
	}
	method := methodEl.SelectAttrValue(dsig.AlgorithmAttr, "")
	alg, ok := SignatureAlgorithm(method)
	if !ok {
		return fmt.Errorf("%w: firma %s", ErrUnsupportedAlgorithm, method)
	}

	valueEl := dsChild(signature, dsig.SignatureValueTag)
	if valueEl == nil {
		return fmt.Errorf("%w: falta SignatureValue", ErrMalformedSignature)
	}
	sig, err := base64.StdEncoding.DecodeString(compact(valueEl.Text()))
	if err != nil {
		return fmt.Errorf("%w: SignatureValue no es base64 válido", ErrMalformedSignature)
	}
	if err := cert.CheckSignature(alg, signed, sig); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	}
	return nil
}

// VerifyReference recalcula el resumen de una ds:Reference y lo compara con su DigestValue.
func VerifyReference(signature, ref *etree.Element) error {
	uri := ref.SelectAttrValue(dsig.URIAttr, "")
	computed, err := ReferenceDigest(signature, ref)
	if err != nil {
		return err
	}
	declared := compact(dsChild(ref, dsig.DigestValueTag).NotNil().Text())
	if subtle.ConstantTimeCompare([]byte(computed), []byte(declared)) != 1 {
		return fmt.Errorf("%w: URI %q", ErrDigestMismatch, uri)
	}
	return nil
}

// ReferenceDigest aplica las transformaciones de ref y devuelve el resumen en base64.
// La firma también lo usa para llenar DigestValue.
func ReferenceDigest(signature, ref *etree.Element) (string, error) {
	uri := ref.SelectAttrValue(dsig.URIAttr, "")
	target, err := resolve(signature, uri)
	if err != nil {
		return "", err
	}

	var exclude *etree.Element
	var canon dsig.Canonicalizer
	for _, tr := range dsChildren(dsChild(ref, dsig.TransformsTag), dsig.TransformTag) {
		alg := tr.SelectAttrValue(dsig.AlgorithmAttr, "")
		if dsig.AlgorithmID(alg) == dsig.EnvelopedSignatureAltorithmId {
			exclude = signature
			continue
		}
		c, err := Canonicalizer(alg, prefixList(tr))
		if err != nil {
			return "", err
		}
		canon = c
	}
	if canon == nil {
		// sin transformación explícita el conjunto de nodos se serializa con C14N 1.0 inclusivo
		canon = dsig.MakeC14N10RecCanonicalizer()
	}

	data, err := Canonicalize(target, canon, exclude)
	if err != nil {
		return "", err
	}
	methodEl := dsChild(ref, dsig.DigestMethodTag)
	if methodEl == nil {
		return "", fmt.Errorf("%w: referencia %q sin DigestMethod", ErrMalformedSignature, uri)
	}
	return Digest(methodEl.SelectAttrValue(dsig.AlgorithmAttr, ""), data)
}

func resolve(signature *etree.Element, uri string) (*etree.Element, error) {
	root := documentRoot(signature)
	if uri == "" {
		return root, nil
	}
	if !strings.HasPrefix(uri, "#") || len(uri) == 1 {
		return nil, fmt.Errorf("%w: URI externa %q", ErrReferenceNotFound, uri)
	}
	if el := FindByID(root, uri[1:]); el != nil {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrReferenceNotFound, uri)
}

// FindByID busca en profundidad el elemento con atributo Id, ID o id igual a id.
func FindByID(root *etree.Element, id string) *etree.Element {
	if root == nil {
		return nil
	}
	for _, a := range root.Attr {
		if a.Space == "" && (a.Key == "Id" || a.Key == "ID" || a.Key == "id") && a.Value == id {
			return root
		}
	}
	for _, child := range root.ChildElements() {
		if el := FindByID(child, id); el != nil {
			return el
		}
	}
	return nil
}

// documentRoot sube hasta el elemento raíz (el hijo del nodo documento).
func documentRoot(el *etree.Element) *etree.Element {
	for el.Parent() != nil && el.Parent().Parent() != nil {
		el = el.Parent()
	}
	if el.Parent() != nil && el.Parent().Tag != "" {
		// árbol sin nodo documento
		return el.Parent()
	}
	return el
}

func dsChild(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag && c.NamespaceURI() == dsig.Namespace {
			return c
		}
	}
	return nil
}

func dsChildren(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag && c.NamespaceURI() == dsig.Namespace {
			out = append(out, c)
		}
	}
	return out
}

func prefixList(el *etree.Element) string {
	for _, c := range el.ChildElements() {
		if c.Tag == dsig.InclusiveNamespacesTag {
			return c.SelectAttrValue(dsig.PrefixListAttr, "")
		}
	}
	return ""
}

// compact quita espacios y saltos de línea (base64 en varias líneas).
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
