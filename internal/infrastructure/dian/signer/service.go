// Servicio de firma digital XAdES-EPES para factura electrónica DIAN (Anexo 1.9).
// Inyecta <ds:Signature> en el segundo <ext:ExtensionContent> del XML.

package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/beevik/etree"
	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldsig"
	"github.com/jhoicas/dian-xml-validator/pkg/dian"
)

var signatureSeq atomic.Uint64

// DigitalSignatureService implementa la firma XAdES-EPES e inyecta el nodo en el XML.
type DigitalSignatureService struct {
	clock    clockwork.Clock
	location *time.Location
	role     string
}

// NewDigitalSignatureService crea el servicio. SigningTime se toma de clock en la zona loc
// (UTC si es nil); el rol del firmante por defecto es supplier.
func NewDigitalSignatureService(clock clockwork.Clock, loc *time.Location) *DigitalSignatureService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DigitalSignatureService{clock: clock, location: loc, role: dian.SignerRoleSupplier}
}

// WithRole cambia xades:ClaimedRole (supplier o third party).
func (s *DigitalSignatureService) WithRole(role string) *DigitalSignatureService {
	cp := *s
	cp.role = role
	return &cp
}

// Sign implementa pkg/dian.Signer. Firma el XML e inyecta ds:Signature en el segundo ExtensionContent.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("dian: XML vacío")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("dian: el certificado está vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("dian: el certificado debe incluir llave privada RSA")
	}
	x509Cert := cert.Leaf
	if x509Cert == nil {
		var err error
		if x509Cert, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("dian: parsear certificado: %w", err)
		}
	}

	// 1) Esqueleto de la firma dentro del segundo ExtensionContent
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = xmldoc.CharsetReader
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("dian: parsear XML: %w", err)
	}
	slot, err := signatureSlot(doc.Root())
	if err != nil {
		return nil, err
	}
	suffix := strconv.FormatUint(signatureSeq.Add(1), 10)
	slot.AddChild(s.skeleton(suffix, x509Cert))

	// 2) Serializar y releer: los resúmenes se calculan sobre el árbol tal como lo verá el receptor
	staged, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("dian: serializar XML: %w", err)
	}
	doc = etree.NewDocument()
	if err := doc.ReadFromBytes(staged); err != nil {
		return nil, fmt.Errorf("dian: releer XML: %w", err)
	}
	sig := xmldsig.FindByID(doc.Root(), fmt.Sprintf(idSignature, suffix))
	if sig == nil {
		return nil, fmt.Errorf("dian: firma no encontrada tras serializar")
	}
	signedInfo := sig.SelectElement("ds:SignedInfo")

	// 3) DigestValue de cada referencia
	for _, ref := range signedInfo.SelectElements("ds:Reference") {
		digest, err := xmldsig.ReferenceDigest(sig, ref)
		if err != nil {
			return nil, fmt.Errorf("dian: resumen de %q: %w", ref.SelectAttrValue("URI", ""), err)
		}
		ref.SelectElement("ds:DigestValue").SetText(digest)
	}

	// 4) SignatureValue sobre SignedInfo canónico (RSA-SHA256)
	canon, err := xmldsig.Canonicalizer(AlgC14N, "")
	if err != nil {
		return nil, err
	}
	canonicalSignedInfo, err := xmldsig.Canonicalize(signedInfo, canon, nil)
	if err != nil {
		return nil, fmt.Errorf("dian: canonicalizar SignedInfo: %w", err)
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("dian: firmar SignedInfo: %w", err)
	}
	sig.SelectElement("ds:SignatureValue").SetText(base64.StdEncoding.EncodeToString(signatureValue))

	return doc.WriteToBytes()
}

// skeleton arma ds:Signature con DigestValue y SignatureValue vacíos.
func (s *DigitalSignatureService) skeleton(suffix string, cert *x509.Certificate) *etree.Element {
	id := func(format string) string { return fmt.Sprintf(format, suffix) }
	certDigestB64, issuerName, serial := CertDigestAndIssuerSerial(cert)

	sig := etree.NewElement("ds:Signature")
	sig.CreateAttr("xmlns:ds", NamespaceDS)
	sig.CreateAttr("Id", id(idSignature))

	si := sig.CreateElement("ds:SignedInfo")
	si.CreateElement("ds:CanonicalizationMethod").CreateAttr("Algorithm", AlgC14N)
	si.CreateElement("ds:SignatureMethod").CreateAttr("Algorithm", AlgRSASHA256)

	docRef := reference(si, "")
	docRef.CreateAttr("Id", id(idRefDocument))
	docRef.InsertChildAt(0, transforms(TransformEnveloped))
	reference(si, "#"+id(idKeyInfo))
	reference(si, "#"+id(idSignedProps)).CreateAttr("Type", TypeSignedProps)

	sig.CreateElement("ds:SignatureValue").CreateAttr("Id", id(idSigValue))

	ki := sig.CreateElement("ds:KeyInfo")
	ki.CreateAttr("Id", id(idKeyInfo))
	ki.CreateElement("ds:X509Data").CreateElement("ds:X509Certificate").SetText(base64.StdEncoding.EncodeToString(cert.Raw))

	qp := sig.CreateElement("ds:Object").CreateElement("xades:QualifyingProperties")
	qp.CreateAttr("xmlns:xades", NamespaceXAdES)
	qp.CreateAttr("Target", "#"+id(idSignature))
	sp := qp.CreateElement("xades:SignedProperties")
	sp.CreateAttr("Id", id(idSignedProps))
	ssp := sp.CreateElement("xades:SignedSignatureProperties")

	ssp.CreateElement("xades:SigningTime").SetText(s.clock.Now().In(s.location).Format(signingTimeLayout))

	c := ssp.CreateElement("xades:SigningCertificate").CreateElement("xades:Cert")
	cd := c.CreateElement("xades:CertDigest")
	cd.CreateElement("ds:DigestMethod").CreateAttr("Algorithm", AlgSHA256)
	cd.CreateElement("ds:DigestValue").SetText(certDigestB64)
	is := c.CreateElement("xades:IssuerSerial")
	is.CreateElement("ds:X509IssuerName").SetText(issuerName)
	is.CreateElement("ds:X509SerialNumber").SetText(serial)

	pid := ssp.CreateElement("xades:SignaturePolicyIdentifier").CreateElement("xades:SignaturePolicyId")
	spi := pid.CreateElement("xades:SigPolicyId")
	spi.CreateElement("xades:Identifier").SetText(dian.SignaturePolicyURLV2)
	spi.CreateElement("xades:Description").SetText(dian.SignaturePolicyDescription)
	ph := pid.CreateElement("xades:SigPolicyHash")
	ph.CreateElement("ds:DigestMethod").CreateAttr("Algorithm", AlgSHA256)
	ph.CreateElement("ds:DigestValue").SetText(dian.SignaturePolicyHashSHA256B64)

	ssp.CreateElement("xades:SignerRole").CreateElement("xades:ClaimedRoles").CreateElement("xades:ClaimedRole").SetText(s.role)
	return sig
}

func reference(signedInfo *etree.Element, uri string) *etree.Element {
	ref := signedInfo.CreateElement("ds:Reference")
	ref.CreateAttr("URI", uri)
	ref.CreateElement("ds:DigestMethod").CreateAttr("Algorithm", AlgSHA256)
	ref.CreateElement("ds:DigestValue")
	return ref
}

func transforms(algs ...string) *etree.Element {
	ts := etree.NewElement("ds:Transforms")
	for _, alg := range algs {
		ts.CreateElement("ds:Transform").CreateAttr("Algorithm", alg)
	}
	return ts
}

// signatureSlot ubica el segundo ext:UBLExtension/ext:ExtensionContent (el builder deja el 2.º vacío para la firma).
func signatureSlot(root *etree.Element) (*etree.Element, error) {
	if root == nil {
		return nil, fmt.Errorf("dian: documento sin raíz")
	}
	contents := extensionContents.Elements(root)
	if len(contents) < 2 {
		return nil, fmt.Errorf("dian: no se encontró el segundo ext:ExtensionContent para inyectar la firma")
	}
	return contents[1], nil
}

var extensionContents = xmldoc.MustCompile("ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent")

var _ dian.Signer = (*DigitalSignatureService)(nil)
