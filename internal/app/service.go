package app

import (
	"context"
	"io"

	"forestry-finance/internal/core"
)

// UploadedDocument is one PDF received from the upload screen, held in
// memory for the duration of the extraction batch.
type UploadedDocument struct {
	Filename string
	Data     []byte
}

// ApplicationService is the single interface all adapters (CLI, Web)
// call. It decouples presentation from business logic. Implementations
// must contain no fmt.Println, no ANSI codes, and no display logic of
// any kind.
type ApplicationService interface {
	// GetSettlement computes the inter-company settlement bundle for one
	// company and period.
	GetSettlement(ctx context.Context, req SettlementRequest) (*core.SettlementBundle, error)

	// GetFinanceExport computes the settlement and flattens it into
	// GL-coded ledger-import rows.
	GetFinanceExport(ctx context.Context, req FinanceExportRequest) (*FinanceExportResult, error)

	// WriteFinanceExportCSV streams the ledger-import CSV for a
	// settlement to w.
	WriteFinanceExportCSV(ctx context.Context, req FinanceExportRequest, w io.Writer) error

	// RenderInvoice writes the HTML invoice/credit-note statement for a
	// settlement to w.
	RenderInvoice(ctx context.Context, req InvoiceRequest, w io.Writer) error

	// GetVariance returns the budget-vs-actual cost comparison for one
	// company and period.
	GetVariance(ctx context.Context, companyID int, period core.Period) (*core.VarianceReport, error)

	// GetYearSummary returns Actual revenue, costs, and margin for a
	// calendar year; feeds the dashboard tiles.
	GetYearSummary(ctx context.Context, companyID int, year int) (*core.YearSummary, error)

	// ExtractInvoices runs document extraction over an upload batch.
	// Failures are isolated per document and reported alongside the
	// successful results.
	ExtractInvoices(ctx context.Context, docs []UploadedDocument) *ExtractionResult

	// ReconcileInvoices checks extracted invoices against the Actual
	// cost records for a period.
	ReconcileInvoices(ctx context.Context, companyID int, period core.Period, invoices []core.ExtractedInvoice) []core.ReconcileResult

	// ArchiveInvoices stores a reviewed batch in the invoice archive.
	ArchiveInvoices(ctx context.Context, items []core.ArchivedInvoice) *core.PersistReport

	// SearchArchive returns archived invoices, optionally filtered by a
	// vendor/invoice-number substring.
	SearchArchive(ctx context.Context, query string) ([]core.ArchivedInvoice, error)

	// SaveCostEntries upserts monthly cost facts for one period and
	// record type.
	SaveCostEntries(ctx context.Context, req SaveCostsRequest) *core.PersistReport

	// SaveSalesTransactions inserts or updates log-sales tickets.
	SaveSalesTransactions(ctx context.Context, req SaveSalesRequest) *core.PersistReport

	// UpsertGLMappings replaces or inserts chart-of-accounts mapping rows.
	UpsertGLMappings(ctx context.Context, companyID int, rows []core.GLMappingRow) (*core.PersistReport, error)

	// ListCompanies returns all companies.
	ListCompanies(ctx context.Context) ([]core.Company, error)

	// ListCostActivities returns the cost dimension table.
	ListCostActivities(ctx context.Context) ([]core.CostActivity, error)

	// ListProducts returns the log-grade dimension table.
	ListProducts(ctx context.Context) ([]core.Product, error)

	// LoadDefaultCompany loads the active company. Uses COMPANY_CODE env
	// var if set; otherwise expects exactly one company in the database.
	LoadDefaultCompany(ctx context.Context) (*core.Company, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)
}
