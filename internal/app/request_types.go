package app

import (
	"github.com/shopspring/decimal"

	"forestry-finance/internal/core"
)

// SettlementRequest selects one company and period and sets the fee
// percentage. A zero MgmtFeePercent is valid (no fee); TaxRate falls
// back to the configured default when zero.
type SettlementRequest struct {
	CompanyID      int             `json:"company_id"`
	Period         core.Period     `json:"-"`
	MgmtFeePercent decimal.Decimal `json:"mgmt_fee_percent"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
}

// FinanceExportRequest extends a settlement request with the invoice
// reference stamped on every export row.
type FinanceExportRequest struct {
	SettlementRequest
	Reference string `json:"reference"`
}

// InvoiceRequest extends a settlement request with the statement header
// fields.
type InvoiceRequest struct {
	SettlementRequest
	InvoiceNo   string `json:"invoice_no"`
	InvoiceDate string `json:"invoice_date"` // YYYY-MM-DD; today when empty
	BillTo      string `json:"bill_to"`
	IssuedBy    string `json:"issued_by"`
}

// SaveCostsRequest is a monthly cost-entry batch.
type SaveCostsRequest struct {
	CompanyID  int              `json:"company_id"`
	Period     core.Period      `json:"-"`
	RecordType core.RecordType  `json:"record_type"`
	Entries    []core.CostEntry `json:"entries"`
}

// SaveSalesRequest is a log-sales ticket batch.
type SaveSalesRequest struct {
	CompanyID int               `json:"company_id"`
	Entries   []core.SalesEntry `json:"entries"`
}
