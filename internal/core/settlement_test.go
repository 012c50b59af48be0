package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"forestry-finance/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func costRows(amounts ...string) []core.AnnotatedCost {
	out := make([]core.AnnotatedCost, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, core.AnnotatedCost{
			CostRecord: core.CostRecord{TotalAmount: dec(a)},
		})
	}
	return out
}

func saleRow(saleType, value string) core.AnnotatedSale {
	return core.AnnotatedSale{
		SalesRecord: core.SalesRecord{SaleType: saleType, TotalValue: dec(value)},
		Class:       core.ClassifySale(saleType),
	}
}

func TestComputeSettlement(t *testing.T) {
	tests := []struct {
		name     string
		costs    []core.AnnotatedCost
		sales    []core.AnnotatedSale
		feePct   string
		taxRate  string
		revenue  string
		costsSum string
		fee      string
		subtotal string
		tax      string
		total    string
		credit   bool
	}{
		{
			name:     "purchase sale nets against costs",
			costs:    costRows("1000"),
			sales:    []core.AnnotatedSale{saleRow("Purchase (Inv)", "500")},
			feePct:   "10",
			taxRate:  "0.15",
			revenue:  "500",
			costsSum: "1000",
			fee:      "100",
			subtotal: "600",
			tax:      "90",
			total:    "690",
		},
		{
			name:     "direct sale excluded from revenue",
			costs:    costRows("1000"),
			sales:    []core.AnnotatedSale{saleRow("Direct (Non-Inv)", "500")},
			feePct:   "10",
			taxRate:  "0.15",
			revenue:  "0",
			costsSum: "1000",
			fee:      "100",
			subtotal: "1100",
			tax:      "165",
			total:    "1265",
		},
		{
			name:     "legacy blank sale_type still credited",
			costs:    costRows("1000"),
			sales:    []core.AnnotatedSale{saleRow("", "500")},
			feePct:   "10",
			taxRate:  "0.15",
			revenue:  "500",
			costsSum: "1000",
			fee:      "100",
			subtotal: "600",
			tax:      "90",
			total:    "690",
		},
		{
			name:     "revenue exceeds costs yields credit note",
			costs:    costRows("100"),
			sales:    []core.AnnotatedSale{saleRow("Purchase", "1000")},
			feePct:   "0",
			taxRate:  "0.15",
			revenue:  "1000",
			costsSum: "100",
			fee:      "0",
			subtotal: "-900",
			tax:      "-135",
			total:    "-1035",
			credit:   true,
		},
		{
			name:     "zero fee percent",
			costs:    costRows("200", "300"),
			sales:    nil,
			feePct:   "0",
			taxRate:  "0.15",
			revenue:  "0",
			costsSum: "500",
			fee:      "0",
			subtotal: "500",
			tax:      "75",
			total:    "575",
		},
		{
			name:     "empty period is all zeros",
			costs:    nil,
			sales:    nil,
			feePct:   "10",
			taxRate:  "0.15",
			revenue:  "0",
			costsSum: "0",
			fee:      "0",
			subtotal: "0",
			tax:      "0",
			total:    "0",
		},
		{
			name:     "negative cost reversal flows through",
			costs:    costRows("1000", "-200"),
			sales:    nil,
			feePct:   "10",
			taxRate:  "0.15",
			revenue:  "0",
			costsSum: "800",
			fee:      "80",
			subtotal: "880",
			tax:      "132",
			total:    "1012",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.ComputeSettlement(tt.costs, tt.sales, dec(tt.feePct), dec(tt.taxRate))

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"Revenue", s.Revenue, tt.revenue},
				{"Costs", s.Costs, tt.costsSum},
				{"MgmtFee", s.MgmtFee, tt.fee},
				{"Subtotal", s.Subtotal, tt.subtotal},
				{"Tax", s.Tax, tt.tax},
				{"TotalDue", s.TotalDue, tt.total},
			}
			for _, c := range checks {
				if !c.got.Equal(dec(c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
			if s.IsCreditNote() != tt.credit {
				t.Errorf("IsCreditNote() = %v, want %v", s.IsCreditNote(), tt.credit)
			}
		})
	}
}

func TestComputeSettlement_NoIntermediateRounding(t *testing.T) {
	// 333.33 at 7.5% fee: the exact fee is 24.99975. Rounding must not
	// happen before the subtotal is formed.
	costs := costRows("333.33")
	s := core.ComputeSettlement(costs, nil, dec("7.5"), dec("0.15"))

	if !s.MgmtFee.Equal(dec("24.99975")) {
		t.Errorf("MgmtFee = %s, want exact 24.99975", s.MgmtFee)
	}
	if !s.Subtotal.Equal(dec("358.32975")) {
		t.Errorf("Subtotal = %s, want exact 358.32975", s.Subtotal)
	}
	// Cents rounding is a display concern only.
	if got := s.MgmtFee.StringFixed(2); got != "25.00" {
		t.Errorf("display fee = %s, want 25.00", got)
	}
}

func TestComputeSettlement_Deterministic(t *testing.T) {
	costs := costRows("123.45", "678.90")
	sales := []core.AnnotatedSale{saleRow("Purchase", "400.00"), saleRow("Direct", "999")}

	a := core.ComputeSettlement(costs, sales, dec("10"), dec("0.15"))
	b := core.ComputeSettlement(costs, sales, dec("10"), dec("0.15"))
	if !a.TotalDue.Equal(b.TotalDue) || !a.Subtotal.Equal(b.Subtotal) {
		t.Errorf("identical inputs gave different settlements: %+v vs %+v", a, b)
	}
}
