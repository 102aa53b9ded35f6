package dto

import "github.com/jhoicas/dian-xml-validator/internal/domain/validation"

// ActionXMLValidation acción informada en las respuestas de validación.
const ActionXMLValidation = "XML_VALIDATION"

// XMLValidationRequest cuerpo de POST /api/xml/validate.
type XMLValidationRequest struct {
	XML          string `json:"xml"`
	DocumentType string `json:"documentType"`
	TechnicalKey string `json:"technicalKey"`
}

// ToDomain convierte el cuerpo en la solicitud del validador.
func (r XMLValidationRequest) ToDomain() validation.Request {
	return validation.Request{XML: r.XML, DocumentType: r.DocumentType, TechnicalKey: r.TechnicalKey}
}

// FindingResponse hallazgo individual.
type FindingResponse struct {
	Type     string `json:"type"`     // XSD | SEMANTIC | SIGNATURE
	Severity string `json:"severity"` // INFO | WARNING | ERROR | FATAL
	Message  string `json:"message"`
}

// XMLValidationResponse resultado de la validación.
// Errors conserva el formato "SEVERIDAD: mensaje" de la versión anterior del servicio.
type XMLValidationResponse struct {
	Valid       bool              `json:"valid"`
	Errors      []string          `json:"errors"`
	Findings    []FindingResponse `json:"findings"`
	MaxSeverity string            `json:"maxSeverity"`
}

// NewXMLValidationResponse arma la respuesta desde el resultado del validador.
func NewXMLValidationResponse(res *validation.Result) XMLValidationResponse {
	out := XMLValidationResponse{
		Valid:       res.Valid,
		Errors:      res.Messages(),
		Findings:    make([]FindingResponse, 0, len(res.Findings)),
		MaxSeverity: res.MaxSeverity.String(),
	}
	for _, f := range res.Findings {
		out.Findings = append(out.Findings, FindingResponse{
			Type:     string(f.Stage),
			Severity: f.Severity.String(),
			Message:  f.Message,
		})
	}
	return out
}

// DocumentTypeResponse tipo de documento soportado.
type DocumentTypeResponse struct {
	Name       string `json:"name"`
	SchemaPath string `json:"schemaPath"`
}

// NewDocumentTypesResponse lista de tipos soportados.
func NewDocumentTypesResponse(types []validation.DocumentType) []DocumentTypeResponse {
	out := make([]DocumentTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, DocumentTypeResponse{Name: t.Name, SchemaPath: t.SchemaPath})
	}
	return out
}
