package dian

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dian-xml-validator/pkg/dian"
)

// SampleInvoice factura de ejemplo del set de pruebas DIAN: una línea de 1.000.000 con IVA 19 %.
// La usan la CLI de firma y las pruebas del validador.
func SampleInvoice(issuedAt time.Time, technicalKey string) *InvoiceDocument {
	return &InvoiceDocument{
		Prefix:       "SETP",
		Number:       "990000001",
		IssuedAt:     issuedAt,
		Environment:  dian.EnvironmentTesting,
		TechnicalKey: technicalKey,
		Supplier: Party{
			Name:               "Facturador de Pruebas S.A.S.",
			CompanyID:          "900123456",
			IdentificationType: dian.IdentificationTypeNIT,
			TaxLevelCode:       dian.TaxLevelResponsableIVA,
			Address:            "Cra 7 # 71-21",
		},
		Customer: Party{
			Name:               "Adquiriente de Pruebas Ltda.",
			CompanyID:          "800987654",
			IdentificationType: dian.IdentificationTypeNIT,
		},
		Resolution: &BillingResolution{
			Number:   "18760000001",
			Prefix:   "SETP",
			From:     990000000,
			To:       995000000,
			DateFrom: time.Date(2019, 1, 19, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2030, 1, 19, 0, 0, 0, 0, time.UTC),
		},
		Lines: []InvoiceLine{{
			Description: "Servicio de validación",
			ProductCode: "SRV-001",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(1000000),
			TaxCode:     dian.TaxCodeIVA,
			TaxPercent:  decimal.NewFromInt(19),
		}},
	}
}
