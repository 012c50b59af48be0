package app

import "forestry-finance/internal/core"

// FinanceExportResult is returned by GetFinanceExport.
type FinanceExportResult struct {
	Reference  string                  `json:"reference"`
	Rows       []core.FinanceExportRow `json:"rows"`
	Settlement core.Settlement         `json:"settlement"`
}

// DocumentFailure is one upload the extractor could not read.
type DocumentFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// ExtractionResult is returned by ExtractInvoices. A batch always
// surfaces its partial results: failed documents sit beside the invoices
// pulled from the readable ones.
type ExtractionResult struct {
	Invoices []core.ExtractedInvoice `json:"invoices"`
	Failed   []DocumentFailure       `json:"failed,omitempty"`
}

// UserSession is the authenticated identity handed to the web adapter
// for token signing.
type UserSession struct {
	UserID    int    `json:"user_id"`
	CompanyID int    `json:"company_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// UserResult is a user profile for display.
type UserResult struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	CompanyCode string `json:"company_code"`
}
