package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ArchivedInvoice is one verified contractor invoice in the digital
// cabinet. FileURL points at the stored PDF in the object store; this
// service only records the reference.
type ArchivedInvoice struct {
	ID          int             `json:"id"`
	InvoiceNo   string          `json:"invoice_no"`
	Vendor      string          `json:"vendor"`
	InvoiceDate *string         `json:"invoice_date,omitempty"` // YYYY-MM-DD, nil when unreadable
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	FileName    string          `json:"file_name"`
	FileURL     string          `json:"file_url"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ArchiveService stores and searches verified contractor invoices.
type ArchiveService interface {
	// SaveInvoices archives a reviewed batch. Items fail individually —
	// one bad row never aborts the rest — and the report separates the
	// persisted subset from the failed one.
	SaveInvoices(ctx context.Context, items []ArchivedInvoice) *PersistReport

	// SearchArchive returns archived invoices newest first, optionally
	// filtered by a vendor/invoice-number substring.
	SearchArchive(ctx context.Context, query string) ([]ArchivedInvoice, error)
}

type archiveService struct {
	pool *pgxpool.Pool
}

// NewArchiveService constructs an ArchiveService backed by PostgreSQL.
func NewArchiveService(pool *pgxpool.Pool) ArchiveService {
	return &archiveService{pool: pool}
}

func (s *archiveService) SaveInvoices(ctx context.Context, items []ArchivedInvoice) *PersistReport {
	report := &PersistReport{}
	for i, item := range items {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO invoice_archive (invoice_no, vendor, invoice_date, description, amount, file_name, file_url, status, created_at)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, NOW())`,
			item.InvoiceNo, item.Vendor, item.InvoiceDate, item.Description,
			item.Amount, item.FileName, item.FileURL, item.Status,
		)
		if err != nil {
			report.Failed = append(report.Failed, PersistFailure{
				Index:  i,
				Key:    item.InvoiceNo,
				Reason: err.Error(),
			})
			continue
		}
		report.Saved++
	}
	return report
}

func (s *archiveService) SearchArchive(ctx context.Context, query string) ([]ArchivedInvoice, error) {
	q := `
		SELECT id, invoice_no, vendor, invoice_date::text, COALESCE(description, ''), amount,
		       COALESCE(file_name, ''), COALESCE(file_url, ''), status, created_at
		FROM invoice_archive`
	args := []any{}
	if query != "" {
		q += ` WHERE vendor ILIKE '%' || $1 || '%' OR invoice_no ILIKE '%' || $1 || '%'`
		args = append(args, query)
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search invoice archive: %w", err)
	}
	defer rows.Close()

	items := []ArchivedInvoice{}
	for rows.Next() {
		var a ArchivedInvoice
		if err := rows.Scan(&a.ID, &a.InvoiceNo, &a.Vendor, &a.InvoiceDate, &a.Description,
			&a.Amount, &a.FileName, &a.FileURL, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived invoice: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
