package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/dian-xml-validator/internal/application/dto"
	"github.com/jhoicas/dian-xml-validator/internal/domain"
	"github.com/jhoicas/dian-xml-validator/internal/domain/validation"
)

// DefaultRequestTimeout tiempo máximo de una validación si no se configura otro.
const DefaultRequestTimeout = 30 * time.Second

// xmlValidator contrato mínimo que necesita el handler.
// Lo implementa *validator.Service; la interfaz permite probar el handler aislado.
type xmlValidator interface {
	Validate(ctx context.Context, req validation.Request) (*validation.Result, error)
	DocumentTypes() []validation.DocumentType
}

// XMLValidationHandler maneja las peticiones HTTP de validación de documentos DIAN.
type XMLValidationHandler struct {
	svc     xmlValidator
	timeout time.Duration
	log     zerolog.Logger
}

// NewXMLValidationHandler construye el handler. timeout <= 0 usa DefaultRequestTimeout.
func NewXMLValidationHandler(svc xmlValidator, timeout time.Duration, log zerolog.Logger) *XMLValidationHandler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &XMLValidationHandler{svc: svc, timeout: timeout, log: log}
}

// Validate godoc
// @Summary      Validar documento electrónico DIAN
// @Description  XSD, reglas semánticas (CUFE, NIT, fechas) y firma XAdES-EPES. Los hallazgos no son errores HTTP.
// @Tags         xml
// @Accept       json
// @Produce      json
// @Param        body  body  dto.XMLValidationRequest  true  "xml, documentType (INVOICE, CREDIT_NOTE, DEBIT_NOTE, DOCUMENTO_SOPORTE) y technicalKey opcional"
// @Success      200   {object}  dto.ApiResponse{data=dto.XMLValidationResponse}
// @Failure      400   {object}  dto.ApiResponse
// @Failure      500   {object}  dto.ApiResponse
// @Router       /api/xml/validate [post]
func (h *XMLValidationHandler) Validate(c *fiber.Ctx) error {
	var in dto.XMLValidationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.BadRequest("Cuerpo de la solicitud inválido"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	res, err := h.svc.Validate(ctx, in.ToDomain())
	if err != nil {
		if domain.IsClientError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.BadRequest(err.Error()))
		}
		h.log.Error().Err(err).Str("document_type", in.DocumentType).Msg("error técnico validando XML")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.InternalError())
	}
	return c.JSON(dto.Success(dto.ActionXMLValidation, dto.NewXMLValidationResponse(res)))
}

// DocumentTypes godoc
// @Summary      Tipos de documento soportados
// @Tags         xml
// @Produce      json
// @Success      200  {object}  dto.ApiResponse{data=[]dto.DocumentTypeResponse}
// @Router       /api/xml/document-types [get]
func (h *XMLValidationHandler) DocumentTypes(c *fiber.Ctx) error {
	return c.JSON(dto.Success("DOCUMENT_TYPES", dto.NewDocumentTypesResponse(h.svc.DocumentTypes())))
}
