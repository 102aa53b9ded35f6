// Package dian: cálculo del CUFE (Código Único de Factura Electrónica) según Anexo Técnico DIAN 1.9.
// Algoritmo: SHA-384. Fórmula de concatenación en el orden estricto definido por la DIAN.

package dian

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
)

// Códigos de impuesto DIAN para la cadena CUFE.
const (
	CodImpIVA         = "01" // IVA
	CodImpImpoconsumo = "04" // Impoconsumo (Impuesto Nacional al Consumo)
	CodImpICA         = "03" // ICA
)

// ErrNilInput se devuelve cuando el cálculo recibe una entrada nula.
var ErrNilInput = errors.New("dian: la entrada del CUFE es obligatoria")

// CufeParams contiene los datos para calcular el CUFE en el orden exigido por la DIAN.
// Los valores se concatenan tal como llegan; solo los impuestos vienen normalizados (ver NormalizeAmount).
type CufeParams struct {
	NumFac   string // Número de factura (cbc:ID)
	FecFac   string // Fecha de emisión YYYY-MM-DD
	HorFac   string // Hora de emisión con zona (ej: 10:15:30-05:00)
	ValFac   string // Valor total sin impuestos (LineExtensionAmount)
	ValImp01 string // Valor total IVA (código 01)
	ValImp04 string // Valor total Impoconsumo (código 04)
	ValImp03 string // Valor total ICA (código 03)
	ValTot   string // Valor total a pagar (PayableAmount)
	NitFE    string // NIT del facturador electrónico
	NumAdq   string // Identificación del adquiriente
	ClTec    string // Clave técnica de la resolución
	TipoAmb  string // '1' = Producción, '2' = Pruebas
}

// Chain arma la cadena CUFE sin separadores.
// NumFac + FecFac + HorFac + ValFac + 01 + ValImp01 + 04 + ValImp04 + 03 + ValImp03 + ValTot + NitFE + NumAdq + ClTec + TipoAmb
func (p *CufeParams) Chain() string {
	var b strings.Builder
	for _, part := range []string{
		p.NumFac, p.FecFac, p.HorFac, p.ValFac,
		CodImpIVA, p.ValImp01,
		CodImpImpoconsumo, p.ValImp04,
		CodImpICA, p.ValImp03,
		p.ValTot, p.NitFE, p.NumAdq, p.ClTec, p.TipoAmb,
	} {
		b.WriteString(part)
	}
	return b.String()
}

// CufeCalculatorService calcula el CUFE según el Anexo Técnico 1.9.
type CufeCalculatorService struct{}

// NewCufeCalculatorService crea el servicio.
func NewCufeCalculatorService() *CufeCalculatorService {
	return &CufeCalculatorService{}
}

// Calculate genera el CUFE (hash hexadecimal en minúsculas, 96 caracteres) a partir de los parámetros.
func (s *CufeCalculatorService) Calculate(p *CufeParams) (string, error) {
	if p == nil {
		return "", ErrNilInput
	}
	return SHA384Hex([]byte(p.Chain()))
}

// SHA384Hex resume data con SHA-384 y lo devuelve en hexadecimal en minúsculas.
func SHA384Hex(data []byte) (string, error) {
	if data == nil {
		return "", ErrNilInput
	}
	hash := sha512.Sum384(data)
	return hex.EncodeToString(hash[:]), nil
}

// CufeMatches compara el CUFE declarado con el calculado sin distinguir mayúsculas.
func CufeMatches(declared, computed string) bool {
	return strings.EqualFold(strings.TrimSpace(declared), computed)
}
