package dian

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingResolution datos de la resolución de facturación (sts:InvoiceControl).
type BillingResolution struct {
	Number   string
	Prefix   string
	From     int64
	To       int64
	DateFrom time.Time
	DateTo   time.Time
}

// Party emisor o adquiriente. CompanyID sin dígito de verificación.
type Party struct {
	Name               string
	CompanyID          string
	IdentificationType string // Tabla 3: 31 = NIT, 13 = CC
	TaxLevelCode       string
	Address            string
}

// InvoiceLine línea de la factura. TaxCode vacío = IVA.
type InvoiceLine struct {
	Description string
	ProductCode string
	UnitCode    string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxCode     string
	TaxPercent  decimal.Decimal
}

// InvoiceDocument datos de entrada para construir la factura UBL 2.1 de ejemplo.
type InvoiceDocument struct {
	Prefix            string
	Number            string
	IssuedAt          time.Time
	DueDate           *time.Time
	Environment       string // ProfileExecutionID: 1 producción, 2 pruebas
	TechnicalKey      string // clave técnica de la resolución, entra al CUFE
	Supplier          Party
	Customer          Party
	Resolution        *BillingResolution
	PaymentFormCode   string
	PaymentMethodCode string
	Lines             []InvoiceLine
}

// ID número completo (prefijo + consecutivo).
func (d *InvoiceDocument) ID() string {
	return d.Prefix + d.Number
}

// BuildResult XML generado junto con el CUFE que quedó en cbc:UUID.
type BuildResult struct {
	XML  []byte
	CUFE string
}
