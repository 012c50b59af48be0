package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FetchService retrieves the row snapshots a settlement computation runs
// over. An empty result set is a valid state and returns an empty slice
// with a nil error; a query failure returns a non-nil error and is never
// collapsed to empty, so a connection outage cannot masquerade as a real
// zero total.
type FetchService interface {
	// FetchCostRecords returns the company's operational cost rows for
	// one period and record type, joined to the activity dimension.
	FetchCostRecords(ctx context.Context, companyID int, period Period, recordType RecordType) ([]CostRecord, error)

	// FetchSalesRecords returns the company's sales transactions whose
	// date falls in [period.Start, period.End), joined to the product
	// dimension for grade codes.
	FetchSalesRecords(ctx context.Context, companyID int, period Period) ([]SalesRecord, error)

	// ListCompanies returns all companies ordered by code.
	ListCompanies(ctx context.Context) ([]Company, error)

	// ListCostActivities returns the cost dimension table.
	ListCostActivities(ctx context.Context) ([]CostActivity, error)

	// ListProducts returns the log-grade dimension table.
	ListProducts(ctx context.Context) ([]Product, error)
}

type fetchService struct {
	pool *pgxpool.Pool
}

// NewFetchService constructs a FetchService backed by PostgreSQL.
func NewFetchService(pool *pgxpool.Pool) FetchService {
	return &fetchService{pool: pool}
}

func (s *fetchService) FetchCostRecords(ctx context.Context, companyID int, period Period, recordType RecordType) ([]CostRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT fc.id, fc.company_id, fc.activity_id, COALESCE(a.activity_name, 'Unknown'),
		       fc.quantity, fc.unit_rate, fc.total_amount, fc.month::text, fc.record_type
		FROM fact_operational_costs fc
		LEFT JOIN dim_cost_activities a ON a.id = fc.activity_id
		WHERE fc.company_id = $1
		  AND fc.month = $2::date
		  AND fc.record_type = $3
		ORDER BY a.activity_name, fc.id`,
		companyID, period.MonthDate(), string(recordType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s costs for company %d period %s: %w",
			recordType, companyID, period.MonthDate(), err)
	}
	defer rows.Close()

	costs := []CostRecord{}
	for rows.Next() {
		var c CostRecord
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.ActivityID, &c.ActivityName,
			&c.Quantity, &c.UnitRate, &c.TotalAmount, &c.Month, &c.RecordType); err != nil {
			return nil, fmt.Errorf("failed to scan cost record: %w", err)
		}
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cost record iteration error: %w", err)
	}
	return costs, nil
}

func (s *fetchService) FetchSalesRecords(ctx context.Context, companyID int, period Period) ([]SalesRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.id, t.company_id, COALESCE(t.grade_id, 0), COALESCE(p.grade_code, 'Unknown'),
		       COALESCE(t.ticket_number, ''), COALESCE(t.compartment, ''),
		       COALESCE(t.customer, ''), COALESCE(t.market, ''), COALESCE(t.sale_type, ''),
		       t.net_tonnes, t.price, t.levy_deduction, t.total_value, t.date::text
		FROM actual_sales_transactions t
		LEFT JOIN dim_products p ON p.id = t.grade_id
		WHERE t.company_id = $1
		  AND t.date >= $2::date
		  AND t.date < $3::date
		ORDER BY t.date, t.id`,
		companyID, period.Start().Format("2006-01-02"), period.End().Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales for company %d period %s: %w",
			companyID, period.MonthDate(), err)
	}
	defer rows.Close()

	sales := []SalesRecord{}
	for rows.Next() {
		var t SalesRecord
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.GradeID, &t.GradeCode,
			&t.TicketNumber, &t.Compartment, &t.Customer, &t.Market, &t.SaleType,
			&t.NetTonnes, &t.Price, &t.LevyDeduction, &t.TotalValue, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		sales = append(sales, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales record iteration error: %w", err)
	}
	return sales, nil
}

func (s *fetchService) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, company_code, name, base_currency FROM companies ORDER BY company_code")
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.CompanyCode, &c.Name, &c.BaseCurrency); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *fetchService) ListCostActivities(ctx context.Context) ([]CostActivity, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, activity_name, COALESCE(category, '') FROM dim_cost_activities ORDER BY activity_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list cost activities: %w", err)
	}
	defer rows.Close()

	var activities []CostActivity
	for rows.Next() {
		var a CostActivity
		if err := rows.Scan(&a.ID, &a.ActivityName, &a.Category); err != nil {
			return nil, fmt.Errorf("failed to scan cost activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *fetchService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, grade_code, COALESCE(grade_name, '') FROM dim_products ORDER BY grade_code")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.GradeCode, &p.GradeName); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
