// Package validation: modelo de hallazgos y resultado de la validación de documentos DIAN.
package validation

import (
	"fmt"
	"strings"
)

// Severity nivel de un hallazgo. Orden total: INFO < WARNING < ERROR < FATAL.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityNames = [...]string{"INFO", "WARNING", "ERROR", "FATAL"}

func (s Severity) String() string {
	if s < SeverityInfo || s > SeverityFatal {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText serializa la severidad por nombre (JSON incluido).
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityInfo || s > SeverityFatal {
		return nil, fmt.Errorf("validation: severidad desconocida %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText acepta el nombre de la severidad sin distinguir mayúsculas.
func (s *Severity) UnmarshalText(b []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(b)))
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("validation: severidad desconocida %q", string(b))
}

// Stage etapa que emitió el hallazgo.
type Stage string

const (
	StageXSD       Stage = "XSD"
	StageSemantic  Stage = "SEMANTIC"
	StageSignature Stage = "SIGNATURE"
)

// Finding hallazgo individual de validación.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Stage    Stage    `json:"type"`
}

// String formato "SEVERIDAD: mensaje".
func (f Finding) String() string {
	return f.Severity.String() + ": " + f.Message
}

func NewFinding(stage Stage, sev Severity, msg string) Finding {
	return Finding{Severity: sev, Message: msg, Stage: stage}
}

// Errorf atajo para hallazgos de severidad ERROR.
func Errorf(stage Stage, format string, args ...any) Finding {
	return NewFinding(stage, SeverityError, fmt.Sprintf(format, args...))
}

// Request entrada del orquestador.
type Request struct {
	XML          string
	DocumentType string
	TechnicalKey string
}

// Result resultado agregado de las tres etapas.
type Result struct {
	Valid       bool      `json:"valid"`
	Findings    []Finding `json:"findings"`
	MaxSeverity Severity  `json:"maxSeverity"`
}

// NewResult construye el resultado: válido solo si no hay hallazgos.
func NewResult(findings []Finding) *Result {
	if findings == nil {
		findings = []Finding{}
	}
	return &Result{
		Valid:       len(findings) == 0,
		Findings:    findings,
		MaxSeverity: MaxSeverity(findings),
	}
}

// MaxSeverity recorre FATAL, ERROR y WARNING y devuelve el primero presente; INFO si ninguno.
func MaxSeverity(findings []Finding) Severity {
	for _, level := range []Severity{SeverityFatal, SeverityError, SeverityWarning} {
		for _, f := range findings {
			if f.Severity == level {
				return level
			}
		}
	}
	return SeverityInfo
}

// Messages lista "SEVERIDAD: mensaje" en el orden de los hallazgos.
func (r *Result) Messages() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.String())
	}
	return out
}
