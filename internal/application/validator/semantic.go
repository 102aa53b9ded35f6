package validator

import (
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/dian-xml-validator/internal/domain/dian"
	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
)

const issueDateLayout = "2006-01-02"

// SemanticValidator reglas de negocio DIAN y recálculo del CUFE.
// Solo aplica a facturas (INVOICE); los demás tipos no generan hallazgos.
type SemanticValidator struct {
	clock    clockwork.Clock
	location *time.Location
	cufe     *dian.CufeCalculatorService

	checkNITDigit bool
}

// NewSemanticValidator la fecha de hoy se toma de clock en loc (America/Bogota si es nil).
func NewSemanticValidator(clock clockwork.Clock, loc *time.Location) *SemanticValidator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = BogotaLocation()
	}
	return &SemanticValidator{clock: clock, location: loc, cufe: dian.NewCufeCalculatorService()}
}

// WithNITCheckDigit activa la verificación del DV del NIT del emisor (apagada por defecto).
func (v *SemanticValidator) WithNITCheckDigit(enabled bool) *SemanticValidator {
	cp := *v
	cp.checkNITDigit = enabled
	return &cp
}

// BogotaLocation zona America/Bogota; si el sistema no tiene tzdata se usa UTC-5 fijo (Colombia no aplica horario de verano).
func BogotaLocation() *time.Location {
	if loc, err := time.LoadLocation("America/Bogota"); err == nil {
		return loc
	}
	return time.FixedZone("COT", -5*60*60)
}

// Validate aplica las reglas al documento. technicalKey es la clave técnica de la resolución.
func (v *SemanticValidator) Validate(doc *xmldoc.Document, docType validation.DocumentType, technicalKey string) []validation.Finding {
	if doc == nil || !strings.EqualFold(docType.Name, validation.Invoice.Name) {
		return nil
	}
	var findings []validation.Finding
	findings = append(findings, v.invoiceRules(doc)...)
	findings = append(findings, v.checkCUFE(doc, technicalKey)...)
	return findings
}

func (v *SemanticValidator) invoiceRules(doc *xmldoc.Document) []validation.Finding {
	var findings []validation.Finding
	scope := doc.Scope()

	if qInvoiceID.Text(scope) == "" {
		findings = append(findings, semanticError("Invoice ID es obligatorio"))
	}

	if raw, ok := qIssueDate.Lookup(scope); ok {
		issued, err := time.ParseInLocation(issueDateLayout, raw, v.location)
		switch {
		case err != nil:
			findings = append(findings, validation.Errorf(validation.StageSemantic, "IssueDate tiene formato inválido: %s", raw))
		case issued.After(v.today()):
			findings = append(findings, semanticError("IssueDate no puede ser una fecha futura"))
		}
	}

	supplier := qSupplierCompanyID.Element(scope)
	companyID := ""
	if supplier != nil {
		companyID = strings.TrimSpace(supplier.Text())
	}
	if companyID == "" {
		findings = append(findings, semanticError("NIT del emisor es obligatorio"))
		return findings
	}
	if !v.checkNITDigit {
		return findings
	}

	err := dian.CheckNITDigit(companyID, supplier.SelectAttrValue("schemeName", ""), supplier.SelectAttrValue("schemeID", ""))
	var dvErr *dian.NITCheckDigitError
	switch {
	case errors.As(err, &dvErr):
		findings = append(findings, validation.Errorf(validation.StageSemantic,
			"Dígito de verificación del NIT del emisor inválido: esperado %s, recibido %s", dvErr.Expected, dvErr.Received))
	case err != nil:
		findings = append(findings, validation.Errorf(validation.StageSemantic, "NIT del emisor inválido: %s", companyID))
	}
	return findings
}

// checkCUFE recalcula el CUFE con los valores del documento y lo compara con cbc:UUID.
func (v *SemanticValidator) checkCUFE(doc *xmldoc.Document, technicalKey string) []validation.Finding {
	scope := doc.Scope()
	declared := qUUID.Text(scope)
	if declared == "" {
		return []validation.Finding{semanticError("El CUFE es obligatorio")}
	}
	if strings.TrimSpace(technicalKey) == "" {
		return []validation.Finding{validation.NewFinding(validation.StageSemantic, validation.SeverityWarning,
			"No se pudo validar CUFE completo (clave técnica no enviada)")}
	}

	taxes := ExtractTaxes(doc)
	computed, err := v.cufe.Calculate(&dian.CufeParams{
		NumFac:   qInvoiceID.Text(scope),
		FecFac:   qIssueDate.Text(scope),
		HorFac:   qIssueTime.Text(scope),
		ValFac:   qLineExtension.Text(scope),
		ValImp01: taxes[dian.CodImpIVA],
		ValImp04: taxes[dian.CodImpImpoconsumo],
		ValImp03: taxes[dian.CodImpICA],
		ValTot:   qPayable.Text(scope),
		NitFE:    qSupplierCompanyID.Text(scope),
		NumAdq:   qCustomerCompanyID.Text(scope),
		ClTec:    technicalKey,
		TipoAmb:  qProfileExecutionID.Text(scope),
	})
	if err != nil {
		return []validation.Finding{validation.Errorf(validation.StageSemantic, "No se pudo calcular el CUFE: %v", err)}
	}
	if !dian.CufeMatches(declared, computed) {
		return []validation.Finding{validation.Errorf(validation.StageSemantic,
			"El CUFE no coincide con el calculado por DIAN. Esperado: %s, Recibido: %s", computed, declared)}
	}
	return nil
}

func (v *SemanticValidator) today() time.Time {
	y, m, d := v.clock.Now().In(v.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.location)
}

func semanticError(msg string) validation.Finding {
	return validation.NewFinding(validation.StageSemantic, validation.SeverityError, msg)
}
