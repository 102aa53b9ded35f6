package domain

import "errors"

// Tipos de error del validador (sin dependencias externas).
// Los hallazgos de validación nunca son errores: viajan en el resultado.
var (
	ErrFunctional      = errors.New("error funcional")
	ErrInvalidArgument = errors.New("argumento inválido")
	ErrTechnical       = errors.New("error técnico")
)

// Error lleva el tipo (uno de los sentinelas), el mensaje para el cliente y la causa opcional.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// Error devuelve el mensaje pensado para el cliente.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap expone el tipo y la causa para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Functional crea un error por entrada inválida del cliente (HTTP 400).
func Functional(msg string) error {
	return &Error{Kind: ErrFunctional, Message: msg}
}

// InvalidArgument crea un error por argumento no soportado (HTTP 400).
func InvalidArgument(msg string) error {
	return &Error{Kind: ErrInvalidArgument, Message: msg}
}

// Technical crea un error de infraestructura (HTTP 500). cause se registra en logs, no se expone.
func Technical(msg string, cause error) error {
	return &Error{Kind: ErrTechnical, Message: msg, Cause: cause}
}

// IsClientError indica si err debe traducirse a una respuesta 400.
func IsClientError(err error) bool {
	return errors.Is(err, ErrFunctional) || errors.Is(err, ErrInvalidArgument)
}
