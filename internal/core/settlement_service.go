package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SettlementBundle is the full working set of one settlement computation:
// the annotated row snapshots alongside the netted figures. Adapters use
// the rows for drill-down display and the export/invoice builders consume
// them directly.
type SettlementBundle struct {
	CompanyID int             `json:"company_id"`
	Period    Period          `json:"-"`
	Costs     []AnnotatedCost `json:"costs"`
	Sales     []AnnotatedSale `json:"sales"`
	FeeGL     GLEntry         `json:"fee_gl"`
	Result    Settlement      `json:"result"`
}

// SettlementService orchestrates one settlement computation: fetch the
// period's Actual costs and sales, load the GL snapshot, annotate, net.
// Every invocation is a pure function of the database snapshot; nothing
// is cached or written back.
type SettlementService struct {
	fetch   FetchService
	mapping MappingService
}

// NewSettlementService wires the fetch and mapping collaborators.
func NewSettlementService(fetch FetchService, mapping MappingService) *SettlementService {
	return &SettlementService{fetch: fetch, mapping: mapping}
}

// PrepareSettlement computes the inter-company settlement for one company
// and period. Costs are always the Actual track. A fetch failure aborts
// the whole computation — a zero settlement is never fabricated from a
// failed read.
func (s *SettlementService) PrepareSettlement(ctx context.Context, companyID int, period Period, mgmtFeePercent, taxRate decimal.Decimal) (*SettlementBundle, error) {
	costs, err := s.fetch.FetchCostRecords(ctx, companyID, period, RecordActual)
	if err != nil {
		return nil, fmt.Errorf("settlement aborted, cost fetch failed: %w", err)
	}

	sales, err := s.fetch.FetchSalesRecords(ctx, companyID, period)
	if err != nil {
		return nil, fmt.Errorf("settlement aborted, sales fetch failed: %w", err)
	}

	glMap, err := s.mapping.LoadGLMap(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("settlement aborted, GL mapping load failed: %w", err)
	}

	annotatedCosts := AnnotateCosts(costs, glMap)
	annotatedSales := AnnotateSales(sales, glMap)

	return &SettlementBundle{
		CompanyID: companyID,
		Period:    period,
		Costs:     annotatedCosts,
		Sales:     annotatedSales,
		FeeGL:     glMap.FeeGL(),
		Result:    ComputeSettlement(annotatedCosts, annotatedSales, mgmtFeePercent, taxRate),
	}, nil
}
