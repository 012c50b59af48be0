package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CostEntry is one row submitted by the monthly cost-entry screen.
// TotalAmount may be left zero, in which case it is derived from
// quantity × unit rate before saving — the same backfill the entry
// screen applied.
type CostEntry struct {
	ActivityID  int             `json:"activity_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SalesEntry is one row submitted by the log-sales entry screen. A zero
// TotalValue is derived as net_tonnes × price − levy.
type SalesEntry struct {
	ID            *int            `json:"id,omitempty"` // set when updating an existing ticket
	Date          string          `json:"date"`
	TicketNumber  string          `json:"ticket_number"`
	Compartment   string          `json:"compartment"`
	Customer      string          `json:"customer"`
	Market        string          `json:"market"`
	SaleType      string          `json:"sale_type"`
	GradeID       int             `json:"grade_id"`
	NetTonnes     decimal.Decimal `json:"net_tonnes"`
	Price         decimal.Decimal `json:"price"`
	LevyDeduction decimal.Decimal `json:"levy_deduction"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// EntryService persists the monthly fact rows the settlement pipeline
// later reads. Upserts are atomic per row on the natural composite key;
// batch items fail individually.
type EntryService interface {
	// SaveCostEntries upserts monthly cost facts keyed on
	// (company_id, activity_id, month, record_type).
	SaveCostEntries(ctx context.Context, companyID int, period Period, recordType RecordType, entries []CostEntry) *PersistReport

	// SaveSalesTransactions inserts new sales tickets and updates rows
	// that carry an existing ID.
	SaveSalesTransactions(ctx context.Context, companyID int, entries []SalesEntry) *PersistReport
}

type entryService struct {
	pool *pgxpool.Pool
}

// NewEntryService constructs an EntryService backed by PostgreSQL.
func NewEntryService(pool *pgxpool.Pool) EntryService {
	return &entryService{pool: pool}
}

func (s *entryService) SaveCostEntries(ctx context.Context, companyID int, period Period, recordType RecordType, entries []CostEntry) *PersistReport {
	report := &PersistReport{}
	for i, e := range entries {
		total := e.TotalAmount
		if total.IsZero() && e.Quantity.IsPositive() && e.UnitRate.IsPositive() {
			total = e.Quantity.Mul(e.UnitRate)
		}

		_, err := s.pool.Exec(ctx, `
			INSERT INTO fact_operational_costs (company_id, activity_id, month, record_type, quantity, unit_rate, total_amount)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7)
			ON CONFLICT (company_id, activity_id, month, record_type)
			DO UPDATE SET quantity = EXCLUDED.quantity, unit_rate = EXCLUDED.unit_rate, total_amount = EXCLUDED.total_amount`,
			companyID, e.ActivityID, period.MonthDate(), string(recordType),
			e.Quantity, e.UnitRate, total,
		)
		if err != nil {
			report.Failed = append(report.Failed, PersistFailure{
				Index:  i,
				Key:    fmt.Sprintf("activity %d", e.ActivityID),
				Reason: err.Error(),
			})
			continue
		}
		report.Saved++
	}
	return report
}

func (s *entryService) SaveSalesTransactions(ctx context.Context, companyID int, entries []SalesEntry) *PersistReport {
	report := &PersistReport{}
	for i, e := range entries {
		total := e.TotalValue
		if total.IsZero() && !e.Price.IsZero() {
			total = e.NetTonnes.Mul(e.Price).Sub(e.LevyDeduction)
		}

		var err error
		if e.ID != nil {
			_, err = s.pool.Exec(ctx, `
				UPDATE actual_sales_transactions
				SET date = $1::date, ticket_number = $2, compartment = $3, customer = $4,
				    market = $5, sale_type = $6, grade_id = $7, net_tonnes = $8,
				    price = $9, levy_deduction = $10, total_value = $11
				WHERE id = $12 AND company_id = $13`,
				e.Date, e.TicketNumber, e.Compartment, e.Customer,
				e.Market, e.SaleType, e.GradeID, e.NetTonnes,
				e.Price, e.LevyDeduction, total,
				*e.ID, companyID,
			)
		} else {
			_, err = s.pool.Exec(ctx, `
				INSERT INTO actual_sales_transactions (company_id, date, ticket_number, compartment, customer, market, sale_type, grade_id, net_tonnes, price, levy_deduction, total_value)
				VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				companyID, e.Date, e.TicketNumber, e.Compartment, e.Customer,
				e.Market, e.SaleType, e.GradeID, e.NetTonnes,
				e.Price, e.LevyDeduction, total,
			)
		}
		if err != nil {
			report.Failed = append(report.Failed, PersistFailure{
				Index:  i,
				Key:    e.TicketNumber,
				Reason: err.Error(),
			})
			continue
		}
		report.Saved++
	}
	return report
}
