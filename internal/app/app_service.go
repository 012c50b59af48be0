package app

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"forestry-finance/internal/ai"
	"forestry-finance/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool       *pgxpool.Pool
	fetch      core.FetchService
	mapping    core.MappingService
	settlement *core.SettlementService
	reconcile  core.ReconcileService
	archive    core.ArchiveService
	entry      core.EntryService
	variance   core.VarianceService
	users      core.UserService
	extractor  ai.ExtractorService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	fetch core.FetchService,
	mapping core.MappingService,
	settlement *core.SettlementService,
	reconcile core.ReconcileService,
	archive core.ArchiveService,
	entry core.EntryService,
	variance core.VarianceService,
	users core.UserService,
	extractor ai.ExtractorService,
) ApplicationService {
	return &appService{
		pool:       pool,
		fetch:      fetch,
		mapping:    mapping,
		settlement: settlement,
		reconcile:  reconcile,
		archive:    archive,
		entry:      entry,
		variance:   variance,
		users:      users,
		extractor:  extractor,
	}
}

// GetSettlement computes the settlement bundle for one company and period.
func (s *appService) GetSettlement(ctx context.Context, req SettlementRequest) (*core.SettlementBundle, error) {
	taxRate := req.TaxRate
	if taxRate.IsZero() {
		taxRate = core.DefaultTaxRate
	}
	return s.settlement.PrepareSettlement(ctx, req.CompanyID, req.Period, req.MgmtFeePercent, taxRate)
}

// GetFinanceExport computes the settlement and flattens it into GL-coded rows.
func (s *appService) GetFinanceExport(ctx context.Context, req FinanceExportRequest) (*FinanceExportResult, error) {
	bundle, err := s.GetSettlement(ctx, req.SettlementRequest)
	if err != nil {
		return nil, err
	}
	rows := core.BuildFinanceExport(bundle.Costs, bundle.Sales, bundle.Result, req.Reference, bundle.FeeGL)
	return &FinanceExportResult{
		Reference:  req.Reference,
		Rows:       rows,
		Settlement: bundle.Result,
	}, nil
}

// WriteFinanceExportCSV streams the ledger-import CSV to w.
func (s *appService) WriteFinanceExportCSV(ctx context.Context, req FinanceExportRequest, w io.Writer) error {
	result, err := s.GetFinanceExport(ctx, req)
	if err != nil {
		return err
	}
	return core.WriteFinanceExportCSV(w, result.Rows)
}

// RenderInvoice writes the HTML statement for a settlement to w.
func (s *appService) RenderInvoice(ctx context.Context, req InvoiceRequest, w io.Writer) error {
	bundle, err := s.GetSettlement(ctx, req.SettlementRequest)
	if err != nil {
		return err
	}

	invoiceDate := req.InvoiceDate
	if invoiceDate == "" {
		invoiceDate = time.Now().Format("2006-01-02")
	}
	issuedBy := req.IssuedBy
	if issuedBy == "" {
		issuedBy = "FCO Management"
	}

	doc := core.BuildInvoiceDoc(bundle.Costs, bundle.Sales, bundle.Result,
		req.InvoiceNo, invoiceDate, req.BillTo, issuedBy, req.Period.Label())
	return core.RenderInvoiceHTML(w, doc)
}

// GetVariance returns the budget-vs-actual comparison for a period.
func (s *appService) GetVariance(ctx context.Context, companyID int, period core.Period) (*core.VarianceReport, error) {
	return s.variance.GetVariance(ctx, companyID, period)
}

// GetYearSummary returns Actual revenue, costs, and margin for a year.
func (s *appService) GetYearSummary(ctx context.Context, companyID int, year int) (*core.YearSummary, error) {
	return s.variance.GetYearSummary(ctx, companyID, year)
}

// ExtractInvoices runs the extractor over each uploaded document. One
// document's failure never aborts the batch.
func (s *appService) ExtractInvoices(ctx context.Context, docs []UploadedDocument) *ExtractionResult {
	result := &ExtractionResult{}
	for _, doc := range docs {
		invoices, err := s.extractor.ExtractInvoices(ctx, doc.Filename, doc.Data)
		if err != nil {
			reason := "extraction failed"
			var exErr *ai.ExtractionError
			if errors.As(err, &exErr) {
				reason = exErr.Reason
			}
			result.Failed = append(result.Failed, DocumentFailure{Filename: doc.Filename, Reason: reason})
			continue
		}
		result.Invoices = append(result.Invoices, invoices...)
	}
	return result
}

// ReconcileInvoices checks extracted invoices against Actual costs.
func (s *appService) ReconcileInvoices(ctx context.Context, companyID int, period core.Period, invoices []core.ExtractedInvoice) []core.ReconcileResult {
	return s.reconcile.Reconcile(ctx, companyID, period, invoices)
}

// ArchiveInvoices stores a reviewed batch in the invoice archive.
func (s *appService) ArchiveInvoices(ctx context.Context, items []core.ArchivedInvoice) *core.PersistReport {
	return s.archive.SaveInvoices(ctx, items)
}

// SearchArchive returns archived invoices matching the query.
func (s *appService) SearchArchive(ctx context.Context, query string) ([]core.ArchivedInvoice, error) {
	return s.archive.SearchArchive(ctx, query)
}

// SaveCostEntries upserts a monthly cost batch.
func (s *appService) SaveCostEntries(ctx context.Context, req SaveCostsRequest) *core.PersistReport {
	return s.entry.SaveCostEntries(ctx, req.CompanyID, req.Period, req.RecordType, req.Entries)
}

// SaveSalesTransactions inserts or updates log-sales tickets.
func (s *appService) SaveSalesTransactions(ctx context.Context, req SaveSalesRequest) *core.PersistReport {
	return s.entry.SaveSalesTransactions(ctx, req.CompanyID, req.Entries)
}

// UpsertGLMappings replaces or inserts chart-of-accounts mapping rows.
func (s *appService) UpsertGLMappings(ctx context.Context, companyID int, rows []core.GLMappingRow) (*core.PersistReport, error) {
	return s.mapping.UpsertMappings(ctx, companyID, rows)
}

// ListCompanies returns all companies.
func (s *appService) ListCompanies(ctx context.Context) ([]core.Company, error) {
	return s.fetch.ListCompanies(ctx)
}

// ListCostActivities returns the cost dimension table.
func (s *appService) ListCostActivities(ctx context.Context) ([]core.CostActivity, error) {
	return s.fetch.ListCostActivities(ctx)
}

// ListProducts returns the log-grade dimension table.
func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.fetch.ListProducts(ctx)
}

// LoadDefaultCompany loads the active company, using COMPANY_CODE env var if set.
func (s *appService) LoadDefaultCompany(ctx context.Context) (*core.Company, error) {
	if code := os.Getenv("COMPANY_CODE"); code != "" {
		c := &core.Company{}
		err := s.pool.QueryRow(ctx,
			"SELECT id, company_code, name, base_currency FROM companies WHERE company_code = $1", code,
		).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.BaseCurrency)
		if err != nil {
			return nil, fmt.Errorf("company %s not found: %w", code, err)
		}
		return c, nil
	}

	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple companies found; set COMPANY_CODE env var (e.g. COMPANY_CODE=FCO)")
	}

	c := &core.Company{}
	if err := s.pool.QueryRow(ctx,
		"SELECT id, company_code, name, base_currency FROM companies LIMIT 1",
	).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.BaseCurrency); err != nil {
		return nil, fmt.Errorf("no default company found, have migrations run?: %w", err)
	}
	return c, nil
}

// AuthenticateUser verifies credentials and returns a session on success.
func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	sum := sha256.Sum256([]byte(password))
	hashed := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(user.PasswordHash)) != 1 {
		return nil, errors.New("authentication failed: invalid credentials")
	}

	return &UserSession{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Username:  user.Username,
		Role:      user.Role,
	}, nil
}

// GetUser returns a user profile by ID.
func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var companyCode string
	if err := s.pool.QueryRow(ctx,
		"SELECT company_code FROM companies WHERE id = $1", user.CompanyID,
	).Scan(&companyCode); err != nil {
		return nil, fmt.Errorf("failed to resolve company for user %d: %w", userID, err)
	}

	return &UserResult{
		Username:    user.Username,
		Role:        user.Role,
		CompanyCode: companyCode,
	}, nil
}
