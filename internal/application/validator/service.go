package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/dian-xml-validator/internal/domain"
	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/xsd"
)

// Service orquesta la validación completa de un documento DIAN:
//
//	verificaciones de entrada → tipo → carga segura → XSD → semántica (CUFE) → firma XAdES
//
// Es seguro para uso concurrente: cada solicitud trabaja sobre su propio árbol.
type Service struct {
	loader    *xmldoc.Loader
	schemas   xsd.Validator
	semantic  *SemanticValidator
	signature *SignatureValidator
	log       zerolog.Logger

	defaultKey string
}

// NewService construye el orquestador con todas sus dependencias.
func NewService(
	loader *xmldoc.Loader,
	schemas xsd.Validator,
	semantic *SemanticValidator,
	signature *SignatureValidator,
	log zerolog.Logger,
) *Service {
	return &Service{
		loader:    loader,
		schemas:   schemas,
		semantic:  semantic,
		signature: signature,
		log:       log,
	}
}

// WithDefaultTechnicalKey clave técnica usada cuando la solicitud no trae una.
func (s *Service) WithDefaultTechnicalKey(key string) *Service {
	s.defaultKey = strings.TrimSpace(key)
	return s
}

// Validate ejecuta las tres etapas y agrega los hallazgos en orden de etapa.
// Devuelve error solo para entradas inválidas (funcional / argumento) o fallos técnicos.
func (s *Service) Validate(ctx context.Context, req validation.Request) (*validation.Result, error) {
	if strings.TrimSpace(req.XML) == "" {
		return nil, domain.Functional("El XML es obligatorio")
	}
	if strings.TrimSpace(req.DocumentType) == "" {
		return nil, domain.Functional("El tipo de documento es obligatorio")
	}
	docType, ok := validation.LookupDocumentType(req.DocumentType)
	if !ok {
		return nil, domain.InvalidArgument("Tipo de documento no soportado: " + req.DocumentType)
	}
	log := s.log.With().Str("document_type", docType.Name).Logger()
	log.Info().Msg("validando documento")

	// La carga va antes del XSD: el documento hostil se rechaza sin llegar al motor de esquemas.
	doc, err := s.loader.Load([]byte(req.XML))
	if err != nil {
		return nil, err
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 1. Validación estructural XSD
	// ═══════════════════════════════════════════════════════════════════════════
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	xsdFindings, err := s.schemas.Validate(ctx, doc.Raw(), docType.SchemaPath)
	if err != nil {
		return nil, domain.Technical("Error validando el XML contra el XSD", err)
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 2. Validación semántica DIAN (incluye CUFE)
	// ═══════════════════════════════════════════════════════════════════════════
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	technicalKey := req.TechnicalKey
	if strings.TrimSpace(technicalKey) == "" {
		technicalKey = s.defaultKey
	}
	semanticFindings := s.semantic.Validate(doc, docType, technicalKey)

	// ═══════════════════════════════════════════════════════════════════════════
	// 3. Firma XAdES-EPES
	// ═══════════════════════════════════════════════════════════════════════════
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	signatureFindings := s.signature.Validate(doc)

	findings := make([]validation.Finding, 0, len(xsdFindings)+len(semanticFindings)+len(signatureFindings))
	findings = append(findings, xsdFindings...)
	findings = append(findings, semanticFindings...)
	findings = append(findings, signatureFindings...)
	result := validation.NewResult(findings)

	if !result.Valid {
		log.Warn().Strs("findings", result.Messages()).Msg("hallazgos DIAN detectados")
	}
	log.Info().
		Bool("valid", result.Valid).
		Str("max_severity", result.MaxSeverity.String()).
		Int("findings", len(result.Findings)).
		Msg("validación terminada")
	return result, nil
}

// DocumentTypes tipos de documento soportados con su esquema.
func (s *Service) DocumentTypes() []validation.DocumentType {
	return validation.DocumentTypes()
}
