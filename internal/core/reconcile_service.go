package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// MatchStatus is the outcome of checking one extracted invoice against
// the Actual costs entered in the system.
type MatchStatus string

const (
	MatchOK       MatchStatus = "Match"     // amounts agree within tolerance
	MatchVariance MatchStatus = "Variance"  // contractor billed a different amount
	MatchNotFound MatchStatus = "Not Found" // no activity or cost row matched the vendor
	MatchError    MatchStatus = "Error"     // lookup failed for this item only
)

// matchTolerance is the absolute difference under which an invoice and
// the entered cost are considered the same figure.
var matchTolerance = decimal.NewFromInt(1)

// ReconcileResult is one row of the reconciliation review table.
type ReconcileResult struct {
	Invoice   ExtractedInvoice `json:"invoice"`
	ERPAmount decimal.Decimal  `json:"erp_amount"`
	Diff      decimal.Decimal  `json:"diff"`
	Status    MatchStatus      `json:"status"`
	Detail    string           `json:"detail,omitempty"`
}

// ReconcileService checks extracted contractor invoices against the
// Actual cost records for a period.
type ReconcileService interface {
	// Reconcile matches each invoice by vendor name against the cost
	// activity dimension and compares amounts. One item's lookup failure
	// marks that item MatchError and the batch continues; partial
	// results are always returned.
	Reconcile(ctx context.Context, companyID int, period Period, invoices []ExtractedInvoice) []ReconcileResult
}

type reconcileService struct {
	pool *pgxpool.Pool
}

// NewReconcileService constructs a ReconcileService backed by PostgreSQL.
func NewReconcileService(pool *pgxpool.Pool) ReconcileService {
	return &reconcileService{pool: pool}
}

func (s *reconcileService) Reconcile(ctx context.Context, companyID int, period Period, invoices []ExtractedInvoice) []ReconcileResult {
	results := make([]ReconcileResult, 0, len(invoices))
	for _, inv := range invoices {
		results = append(results, s.reconcileOne(ctx, companyID, period, inv))
	}
	return results
}

func (s *reconcileService) reconcileOne(ctx context.Context, companyID int, period Period, inv ExtractedInvoice) ReconcileResult {
	res := ReconcileResult{Invoice: inv, Status: MatchNotFound}

	var activityID int
	err := s.pool.QueryRow(ctx, `
		SELECT id FROM dim_cost_activities
		WHERE activity_name ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT 1`,
		inv.Vendor,
	).Scan(&activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return res
		}
		res.Status = MatchError
		res.Detail = fmt.Sprintf("activity lookup failed: %v", err)
		return res
	}

	var erpAmount decimal.Decimal
	err = s.pool.QueryRow(ctx, `
		SELECT total_amount FROM fact_operational_costs
		WHERE company_id = $1 AND activity_id = $2 AND month = $3::date AND record_type = $4
		LIMIT 1`,
		companyID, activityID, period.MonthDate(), string(RecordActual),
	).Scan(&erpAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return res
		}
		res.Status = MatchError
		res.Detail = fmt.Sprintf("cost lookup failed: %v", err)
		return res
	}

	res.ERPAmount = erpAmount
	res.Diff = inv.AmountDecimal().Sub(erpAmount)
	if res.Diff.Abs().LessThan(matchTolerance) {
		res.Status = MatchOK
	} else {
		res.Status = MatchVariance
	}
	return res
}
