package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractedInvoice is one invoice the document-understanding model found
// in an uploaded PDF. A single file may contain several invoices, so the
// extraction result is always a list. The jsonschema descriptions drive
// the strict structured-output schema sent to the model.
type ExtractedInvoice struct {
	Vendor      string `json:"vendor" jsonschema_description:"The name of the company that issued the invoice"`
	InvoiceNo   string `json:"invoice_no" jsonschema_description:"The invoice number exactly as printed, e.g. 'INV-10023'"`
	InvoiceDate string `json:"invoice_date" jsonschema_description:"The invoice date in YYYY-MM-DD format"`
	Amount      string `json:"amount" jsonschema_description:"The invoice total as a plain decimal string without currency symbols, e.g. '12500.00'"`
	Description string `json:"description" jsonschema_description:"A one-line summary of the work invoiced"`

	// Filename is attached by the caller after extraction; the model
	// never sees or produces it.
	Filename string `json:"filename,omitempty"`
}

// ExtractionBatch wraps the model output so the schema has a single root
// object (strict structured outputs require an object, not a bare array).
type ExtractionBatch struct {
	Invoices []ExtractedInvoice `json:"invoices" jsonschema_description:"Every distinct invoice found in the document"`
}

// Normalize cleans model output in place: trims fields, strips currency
// formatting from the amount, and defaults the fields a sloppy extraction
// leaves blank.
func (e *ExtractedInvoice) Normalize() {
	e.Vendor = strings.TrimSpace(e.Vendor)
	if e.Vendor == "" {
		e.Vendor = "Unknown"
	}
	e.InvoiceNo = strings.TrimSpace(e.InvoiceNo)
	if e.InvoiceNo == "" {
		e.InvoiceNo = "Unknown"
	}
	e.InvoiceDate = strings.TrimSpace(e.InvoiceDate)
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		e.Description = "N/A"
	}

	amt := strings.TrimSpace(e.Amount)
	amt = strings.ReplaceAll(amt, "$", "")
	amt = strings.ReplaceAll(amt, ",", "")
	if amt == "" || strings.EqualFold(amt, "null") {
		amt = "0.00"
	}
	e.Amount = amt
}

// AmountDecimal parses the normalized amount, degrading to zero when the
// model produced something unparseable. The reconciliation step treats a
// zero amount with a Variance status as a review flag, not a crash.
func (e *ExtractedInvoice) AmountDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(e.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}
