package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecordType distinguishes the two parallel data tracks kept for every
// period and dimension: planned figures vs what actually happened.
type RecordType string

const (
	RecordBudget RecordType = "Budget"
	RecordActual RecordType = "Actual"
)

// ItemType identifies which dimension a GL mapping row points at.
type ItemType string

const (
	ItemCost    ItemType = "Cost"
	ItemRevenue ItemType = "Revenue"
)

type Company struct {
	ID           int    `json:"id"`
	CompanyCode  string `json:"company_code"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
}

// Period is one calendar month. Monthly facts are keyed on the first day
// of the month; sales transactions are matched with an inclusive-start /
// exclusive-end date range.
type Period struct {
	Year  int
	Month time.Month
}

// Start returns the first day of the period (inclusive bound).
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first day of the following month (exclusive bound).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// MonthDate is the YYYY-MM-DD key used by the monthly fact tables.
func (p Period) MonthDate() string {
	return p.Start().Format("2006-01-02")
}

// Label is the human-readable form used on statements, e.g. "Jan 2026".
func (p Period) Label() string {
	return p.Start().Format("Jan 2006")
}

// ParsePeriod parses a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (want YYYY-MM): %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// CostRecord is one monthly operational cost line for a company, e.g.
// "Groundbase Harvesting, 1200 tonnes @ $32.50". Rows are created by the
// cost-entry screens and are read-only to the settlement pipeline.
type CostRecord struct {
	ID           int             `json:"id"`
	CompanyID    int             `json:"company_id"`
	ActivityID   int             `json:"activity_id"`
	ActivityName string          `json:"activity_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Month        string          `json:"month"` // YYYY-MM-DD, first of month
	RecordType   RecordType      `json:"record_type"`
}

// SalesRecord is one log-sales transaction (a truck ticket). SaleType is
// free text from the entry screen and must go through ClassifySale before
// any settlement use.
type SalesRecord struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	GradeID       int             `json:"grade_id"`
	GradeCode     string          `json:"grade_code"`
	TicketNumber  string          `json:"ticket_number"`
	Compartment   string          `json:"compartment"`
	Customer      string          `json:"customer"`
	Market        string          `json:"market"`
	SaleType      string          `json:"sale_type"`
	NetTonnes     decimal.Decimal `json:"net_tonnes"`
	Price         decimal.Decimal `json:"price"`
	LevyDeduction decimal.Decimal `json:"levy_deduction"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Date          string          `json:"date"` // YYYY-MM-DD
}

// GLEntry is one general-ledger account reference resolved from the
// per-company mapping table.
type GLEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CostActivity is a row of the cost dimension table.
type CostActivity struct {
	ID           int    `json:"id"`
	ActivityName string `json:"activity_name"`
	Category     string `json:"category"`
}

// Product is a row of the log-grade dimension table.
type Product struct {
	ID        int    `json:"id"`
	GradeCode string `json:"grade_code"`
	GradeName string `json:"grade_name"`
}
