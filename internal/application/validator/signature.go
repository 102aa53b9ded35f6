package validator

import (
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldsig"
	"github.com/jhoicas/dian-xml-validator/pkg/dian"
)

// Algoritmos aceptados por la DIAN en la firma.
var (
	allowedDigests = map[string]bool{
		xmldsig.DigestSHA256: true,
		xmldsig.DigestSHA384: true,
		xmldsig.DigestSHA512: true,
	}
	allowedSignatureMethods = map[string]bool{
		dsig.RSASHA256SignatureMethod: true,
		dsig.RSASHA384SignatureMethod: true,
		dsig.RSASHA512SignatureMethod: true,
	}
)

// SignatureValidator valida la firma XAdES-EPES: criptografía, certificado y campos XAdES.
type SignatureValidator struct {
	clock clockwork.Clock
	log   zerolog.Logger
}

func NewSignatureValidator(clock clockwork.Clock, log zerolog.Logger) *SignatureValidator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SignatureValidator{clock: clock, log: log}
}

// Validate nunca propaga errores: cualquier fallo inesperado se vuelve un hallazgo.
func (v *SignatureValidator) Validate(doc *xmldoc.Document) (findings []validation.Finding) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error().Interface("panic", r).Msg("pánico validando la firma")
			findings = []validation.Finding{unexpected(fmt.Errorf("%v", r))}
		}
	}()
	if doc == nil {
		return []validation.Finding{signatureError("Se esperaba exactamente una firma digital (ds:Signature)")}
	}

	sigs := qSignatures.Elements(doc.Scope())
	if len(sigs) != 1 {
		return []validation.Finding{signatureError("Se esperaba exactamente una firma digital (ds:Signature)")}
	}
	sig := sigs[0]

	cert, err := xmldsig.Certificate(sig)
	switch {
	case errors.Is(err, xmldsig.ErrNoCertificate):
		// sin certificado no hay llave para verificar
		return []validation.Finding{
			signatureError("La firma digital es inválida"),
			signatureError("El certificado X509 es obligatorio"),
		}
	case err != nil:
		return []validation.Finding{unexpected(err)}
	}

	if err := xmldsig.VerifyWithCertificate(sig, cert); err != nil {
		v.log.Debug().Err(err).Msg("verificación criptográfica de la firma fallida")
		findings = append(findings, signatureError("La firma digital es inválida"))
	}

	findings = append(findings, v.checkCertificate(cert)...)
	findings = append(findings, checkXAdES(doc)...)
	return findings
}

func (v *SignatureValidator) checkCertificate(cert *x509.Certificate) []validation.Finding {
	var findings []validation.Finding
	now := v.clock.Now()
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		findings = append(findings, signatureError("Certificado vencido o no válido aún"))
	}
	if cert.KeyUsage&x509.KeyUsageContentCommitment == 0 {
		findings = append(findings, signatureError("El certificado no tiene uso de no repudio habilitado"))
	}
	if alg := cert.SignatureAlgorithm.String(); !strings.Contains(alg, "SHA") {
		findings = append(findings, validation.Errorf(validation.StageSignature, "Algoritmo de firma no soportado por DIAN: %s", alg))
	}
	if issuer := cert.Issuer.String(); !trustedIssuer(issuer) {
		findings = append(findings, validation.NewFinding(validation.StageSignature, validation.SeverityWarning,
			"El emisor del certificado no está en la lista ONAC conocida: "+issuer))
	}
	return findings
}

func trustedIssuer(issuer string) bool {
	for _, fragment := range dian.TrustedIssuerFragments {
		if strings.Contains(issuer, fragment) {
			return true
		}
	}
	return false
}

// checkXAdES política, hora y rol de la firma, y algoritmos de resumen y firma.
func checkXAdES(doc *xmldoc.Document) []validation.Finding {
	var findings []validation.Finding
	scope := doc.Scope()

	switch policy := qPolicyIdentifier.Text(scope); {
	case policy == "":
		findings = append(findings, signatureError("No se encontró SignaturePolicyIdentifier (obligatorio DIAN)"))
	case policy != dian.SignaturePolicyURLV2:
		findings = append(findings, validation.Errorf(validation.StageSignature, "Política de firma DIAN inválida: %s", policy))
	}

	if signingTime := qSigningTime.Text(scope); signingTime == "" {
		findings = append(findings, signatureError("SigningTime es obligatorio en la firma XAdES"))
	} else if _, err := time.Parse(time.RFC3339, signingTime); err != nil {
		findings = append(findings, validation.Errorf(validation.StageSignature, "SigningTime tiene formato inválido: %s", signingTime))
	}

	switch role := qClaimedRole.Text(scope); {
	case role == "":
		findings = append(findings, signatureError("SigningRole es obligatorio (Supplier o Third party)"))
	case !strings.EqualFold(role, dian.SignerRoleSupplier) && !strings.EqualFold(role, dian.SignerRoleThirdParty):
		findings = append(findings, validation.Errorf(validation.StageSignature, "SigningRole inválido: %s", role))
	}

	seen := map[string]bool{}
	for _, uri := range qDigestMethods.Values(scope) {
		if allowedDigests[uri] || seen[uri] {
			continue
		}
		seen[uri] = true
		findings = append(findings, validation.Errorf(validation.StageSignature, "Algoritmo de resumen no soportado: %s", uri))
	}
	if method := qSignatureMethod.Text(scope); !allowedSignatureMethods[method] {
		findings = append(findings, validation.Errorf(validation.StageSignature, "Algoritmo de firma no soportado: %s", method))
	}
	return findings
}

func signatureError(msg string) validation.Finding {
	return validation.NewFinding(validation.StageSignature, validation.SeverityError, msg)
}

func unexpected(err error) validation.Finding {
	return validation.Errorf(validation.StageSignature, "No se pudo validar la firma digital: %v", err)
}
