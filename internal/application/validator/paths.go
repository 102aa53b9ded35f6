// Package validator orquesta la validación de documentos electrónicos DIAN:
// esquema XSD, reglas semánticas (incluido el CUFE) y firma XAdES-EPES.
package validator

import "github.com/jhoicas/dian-xml-validator/internal/infrastructure/xmldoc"

// Consultas fijas sobre el documento; se compilan una sola vez.
var (
	qInvoiceID          = xmldoc.MustCompile("/Invoice/cbc:ID")
	qIssueDate          = xmldoc.MustCompile("/Invoice/cbc:IssueDate")
	qIssueTime          = xmldoc.MustCompile("/Invoice/cbc:IssueTime")
	qUUID               = xmldoc.MustCompile("/Invoice/cbc:UUID")
	qProfileExecutionID = xmldoc.MustCompile("/Invoice/cbc:ProfileExecutionID")
	qLineExtension      = xmldoc.MustCompile("/Invoice/cac:LegalMonetaryTotal/cbc:LineExtensionAmount")
	qPayable            = xmldoc.MustCompile("/Invoice/cac:LegalMonetaryTotal/cbc:PayableAmount")
	qSupplierCompanyID  = xmldoc.MustCompile("/Invoice/cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID")
	qCustomerCompanyID  = xmldoc.MustCompile("/Invoice/cac:AccountingCustomerParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID")

	qTaxTotals   = xmldoc.MustCompile("/Invoice/cac:TaxTotal")
	qTaxSchemeID = xmldoc.MustCompile("cac:TaxSubtotal/cac:TaxCategory/cac:TaxScheme/cbc:ID")
	qTaxAmount   = xmldoc.MustCompile("cbc:TaxAmount")

	qSignatures       = xmldoc.MustCompile("//ds:Signature")
	qPolicyIdentifier = xmldoc.MustCompile("//xades:SigPolicyId/xades:Identifier")
	qSigningTime      = xmldoc.MustCompile("//xades:SigningTime")
	qClaimedRole      = xmldoc.MustCompile("//xades:SignerRole/xades:ClaimedRoles/xades:ClaimedRole")
	qDigestMethods    = xmldoc.MustCompile("//ds:Reference/ds:DigestMethod/@Algorithm")
	qSignatureMethod  = xmldoc.MustCompile("//ds:SignatureMethod/@Algorithm")
)
