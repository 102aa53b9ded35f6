// Package xmldsig: verificación XML-DSig (referencias y SignatureValue) sobre los
// canonicalizadores de goxmldsig.
package xmldsig

import (
	"crypto"
	"crypto/x509"

	dsig "github.com/russellhaering/goxmldsig"
)

// URIs de resumen (DigestMethod).
const (
	DigestSHA1   = "http://www.w3.org/2000/09/xmldsig#sha1"
	DigestSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"
	DigestSHA384 = "http://www.w3.org/2001/04/xmldsig-more#sha384"
	DigestSHA512 = "http://www.w3.org/2001/04/xmlenc#sha512"
)

var digestHashes = map[string]crypto.Hash{
	DigestSHA1:   crypto.SHA1,
	DigestSHA256: crypto.SHA256,
	DigestSHA384: crypto.SHA384,
	DigestSHA512: crypto.SHA512,
}

var signatureAlgorithms = map[string]x509.SignatureAlgorithm{
	dsig.RSASHA1SignatureMethod:     x509.SHA1WithRSA,
	dsig.RSASHA256SignatureMethod:   x509.SHA256WithRSA,
	dsig.RSASHA384SignatureMethod:   x509.SHA384WithRSA,
	dsig.RSASHA512SignatureMethod:   x509.SHA512WithRSA,
	dsig.ECDSASHA256SignatureMethod: x509.ECDSAWithSHA256,
	dsig.ECDSASHA384SignatureMethod: x509.ECDSAWithSHA384,
	dsig.ECDSASHA512SignatureMethod: x509.ECDSAWithSHA512,
}

// DigestHash hash asociado a la URI de DigestMethod.
func DigestHash(uri string) (crypto.Hash, bool) {
	h, ok := digestHashes[uri]
	if !ok || !h.Available() {
		return 0, false
	}
	return h, true
}

// SignatureAlgorithm algoritmo x509 asociado a la URI de SignatureMethod.
func SignatureAlgorithm(uri string) (x509.SignatureAlgorithm, bool) {
	alg, ok := signatureAlgorithms[uri]
	return alg, ok
}
