// Package dian contiene catálogos y validaciones alineados al Anexo Técnico
// de Factura Electrónica de Venta DIAN (Colombia) v1.9.
package dian

// =============================================================================
// Tabla 17 - Tipos de Responsabilidad Fiscal (Anexo 1.9 - 13.2.7.1)
// =============================================================================

const (
	TaxLevelGranContribuyente = "O-13" // Gran contribuyente
	TaxLevelResponsableIVA    = "O-48" // Responsable de IVA
	TaxLevelNoAplicaOtros     = "R-99-PN"
)

// =============================================================================
// Tabla 6 - Unidades de Medida (Anexo 1.9 - 13.3.6)
// =============================================================================

const (
	UnitUnit     = "94"  // Unidad
	UnitKilogram = "KGM" // Kilogramo
	UnitHour     = "HUR" // Hora
)

// =============================================================================
// Tablas 13 y 14 - Forma y medio de pago (Anexo 1.9 - 13.3.4)
// =============================================================================

const (
	PaymentFormContado = "1"
	PaymentFormCredito = "2"

	PaymentMethodEfectivo      = "10"
	PaymentMethodTransferencia = "47"
)

// =============================================================================
// Tabla 11 - Tipos de Impuesto (Anexo 1.9 - 13.2.2)
// =============================================================================

const (
	TaxCodeIVA     = "01" // IVA
	TaxCodeICA     = "03" // Impuesto de Industria y Comercio
	TaxCodeINC     = "04" // Impuesto Nacional al Consumo
	TaxCodeReteIVA = "05" // Retención sobre el IVA
)

// TaxNames nombre del esquema tributario (cac:TaxScheme/cbc:Name) por código.
var TaxNames = map[string]string{
	TaxCodeIVA:     "IVA",
	TaxCodeICA:     "ICA",
	TaxCodeINC:     "INC",
	TaxCodeReteIVA: "ReteIVA",
}

// =============================================================================
// Tabla 3 - Tipos de identificación (Anexo 1.9 - 13.2.1)
// =============================================================================

const (
	IdentificationTypeNIT = "31" // NIT - requiere dígito de verificación
	IdentificationTypeCC  = "13" // Cédula de ciudadanía
)

// =============================================================================
// Ambiente (ProfileExecutionID) y tipo de factura (InvoiceTypeCode)
// =============================================================================

const (
	EnvironmentProduction = "1"
	EnvironmentTesting    = "2"

	InvoiceTypeVenta = "01" // Factura electrónica de venta

	// ProfileID y CustomizationID del UBL DIAN 2.1.
	ProfileIDFacturaVenta = "DIAN 2.1: Factura Electrónica de Venta"
	CustomizationGeneric  = "10"
)

// =============================================================================
// Firma XAdES-EPES (Anexo 1.9 - 11.3): política v2 y roles del firmante
// =============================================================================

const (
	SignaturePolicyURLV2         = "https://facturaelectronica.dian.gov.co/politicadefirma/v2/politicadefirmav2.pdf"
	SignaturePolicyDescription   = "Política de firma para facturas electrónicas de la República de Colombia."
	SignaturePolicyHashSHA256B64 = "dMoMvtcG5aIzgYo0tIsSQeVJBDnUnfSOfBpxXrmor0Y=" // SHA-256 de politicadefirmav2.pdf

	SignerRoleSupplier   = "supplier"
	SignerRoleThirdParty = "third party"
)

// TrustedIssuerFragments fragmentos del DN de emisores acreditados por la ONAC.
var TrustedIssuerFragments = []string{
	"ORGANISMO NACIONAL DE ACREDITACION DE COLOMBIA",
	"CERTICAMARA",
	"ANDES SCD",
	"GSE",
	"ECOLOMBIA",
	"GLOBALSIGN",
	"SUCERED",
}
