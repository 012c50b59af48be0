package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// VarianceLine compares one cost activity's budget against what it
// actually cost. Variance is budget − actual: positive means under
// budget, negative means overspent.
type VarianceLine struct {
	ActivityID   int
	ActivityName string
	Budget       decimal.Decimal
	Actual       decimal.Decimal
	Variance     decimal.Decimal
}

// VarianceReport is the budget-vs-actual cost comparison for one company
// and period.
type VarianceReport struct {
	CompanyID     int
	Period        Period
	Lines         []VarianceLine
	TotalBudget   decimal.Decimal
	TotalActual   decimal.Decimal
	TotalVariance decimal.Decimal
}

// YearSummary feeds the dashboard tiles: Actual-track revenue, costs, and
// margin accumulated over one calendar year.
type YearSummary struct {
	CompanyID int
	Year      int
	Revenue   decimal.Decimal
	Costs     decimal.Decimal
	Margin    decimal.Decimal
}

// VarianceService provides read-only budget-vs-actual reporting queries.
type VarianceService interface {
	// GetVariance returns the per-activity budget/actual comparison for
	// one period. Activities present on either track appear; a side with
	// no row reports zero.
	GetVariance(ctx context.Context, companyID int, period Period) (*VarianceReport, error)

	// GetYearSummary returns Actual revenue, costs, and margin for a
	// calendar year.
	GetYearSummary(ctx context.Context, companyID int, year int) (*YearSummary, error)
}

type varianceService struct {
	pool *pgxpool.Pool
}

// NewVarianceService constructs a VarianceService backed by the given pool.
func NewVarianceService(pool *pgxpool.Pool) VarianceService {
	return &varianceService{pool: pool}
}

// GetVariance queries both record-type tracks in one pass with a
// conditional aggregate per track, so an activity entered on only one
// side still produces a line.
func (s *varianceService) GetVariance(ctx context.Context, companyID int, period Period) (*VarianceReport, error) {
	const q = `
		SELECT a.id, a.activity_name,
		       COALESCE(SUM(fc.total_amount) FILTER (WHERE fc.record_type = 'Budget'), 0) AS budget,
		       COALESCE(SUM(fc.total_amount) FILTER (WHERE fc.record_type = 'Actual'), 0) AS actual
		FROM dim_cost_activities a
		JOIN fact_operational_costs fc ON fc.activity_id = a.id
		WHERE fc.company_id = $1
		  AND fc.month = $2::date
		GROUP BY a.id, a.activity_name
		ORDER BY a.activity_name`

	rows, err := s.pool.Query(ctx, q, companyID, period.MonthDate())
	if err != nil {
		return nil, fmt.Errorf("failed to query cost variance: %w", err)
	}
	defer rows.Close()

	report := &VarianceReport{CompanyID: companyID, Period: period}
	for rows.Next() {
		var line VarianceLine
		if err := rows.Scan(&line.ActivityID, &line.ActivityName, &line.Budget, &line.Actual); err != nil {
			return nil, fmt.Errorf("failed to scan variance row: %w", err)
		}
		line.Variance = line.Budget.Sub(line.Actual)
		report.Lines = append(report.Lines, line)
		report.TotalBudget = report.TotalBudget.Add(line.Budget)
		report.TotalActual = report.TotalActual.Add(line.Actual)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("variance row iteration error: %w", err)
	}

	report.TotalVariance = report.TotalBudget.Sub(report.TotalActual)
	return report, nil
}

func (s *varianceService) GetYearSummary(ctx context.Context, companyID int, year int) (*YearSummary, error) {
	summary := &YearSummary{CompanyID: companyID, Year: year}

	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM fact_operational_costs
		WHERE company_id = $1
		  AND record_type = 'Actual'
		  AND EXTRACT(YEAR FROM month)::int = $2`,
		companyID, year,
	).Scan(&summary.Costs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum actual costs for %d: %w", year, err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_value), 0)
		FROM actual_sales_transactions
		WHERE company_id = $1
		  AND EXTRACT(YEAR FROM date)::int = $2`,
		companyID, year,
	).Scan(&summary.Revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales for %d: %w", year, err)
	}

	summary.Margin = summary.Revenue.Sub(summary.Costs)
	return summary, nil
}
