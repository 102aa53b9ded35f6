package dto

// Valores del sobre de respuesta.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"

	ActionValidationError = "VALIDATION_ERROR"
	ActionInternalError   = "INTERNAL_ERROR"

	MessageSuccess       = "Operación exitosa"
	MessageInternalError = "Error interno del servidor"
)

// ApiResponse sobre común de todas las respuestas de la API.
// Status es SUCCESS o ERROR, Code el código HTTP como texto y LastAction el mensaje para el usuario.
type ApiResponse struct {
	Success    bool   `json:"success"`
	Status     string `json:"status"`
	Code       string `json:"code"`
	Action     string `json:"action"`
	LastAction string `json:"lastAction"`
	Data       any    `json:"data,omitempty"`
}

// Success respuesta 200 con datos.
func Success(action string, data any) ApiResponse {
	return ApiResponse{
		Success:    true,
		Status:     StatusSuccess,
		Code:       "200",
		Action:     action,
		LastAction: MessageSuccess,
		Data:       data,
	}
}

// BadRequest respuesta 400; message se muestra al cliente.
func BadRequest(message string) ApiResponse {
	return ApiResponse{
		Status:     StatusError,
		Code:       "400",
		Action:     ActionValidationError,
		LastAction: message,
	}
}

// InternalError respuesta 500; el detalle solo va al log.
func InternalError() ApiResponse {
	return ApiResponse{
		Status:     StatusError,
		Code:       "500",
		Action:     ActionInternalError,
		LastAction: MessageInternalError,
	}
}
