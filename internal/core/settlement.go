package core

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat GST-style consumption rate applied to the
// settlement subtotal. Override per call when the statutory rate changes.
var DefaultTaxRate = decimal.RequireFromString("0.15")

// Settlement is the computed inter-company position for one company and
// period. It has no lifecycle of its own: it is recomputed from the row
// snapshot on every request and never persisted.
//
// Sign convention: a positive Subtotal means the counterparty owes money
// (invoice); a negative Subtotal means we owe them a credit note.
type Settlement struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Costs    decimal.Decimal `json:"costs"`
	MgmtFee  decimal.Decimal `json:"mgmt_fee"`
	Subtotal decimal.Decimal `json:"subtotal_ex_tax"`
	Tax      decimal.Decimal `json:"tax"`
	TotalDue decimal.Decimal `json:"total_due"`

	MgmtFeePercent decimal.Decimal `json:"mgmt_fee_percent"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
}

// IsCreditNote reports whether the settlement nets to a credit position.
func (s Settlement) IsCreditNote() bool {
	return s.Subtotal.IsNegative()
}

// ComputeSettlement nets annotated costs and sales into the settlement
// figures. Pure: identical inputs always yield identical output.
//
//	revenue  = Σ total_value over invoice-relevant sales
//	costs    = Σ total_amount over all cost rows
//	mgmt_fee = costs × mgmtFeePercent / 100
//	subtotal = (costs + mgmt_fee) − revenue
//	tax      = subtotal × taxRate
//	total    = subtotal + tax
//
// No intermediate rounding: all arithmetic stays in exact decimal form,
// and rounding to cents happens only at display/export boundaries.
// Negative amounts (credits, reversals) flow through unvalidated.
func ComputeSettlement(costs []AnnotatedCost, sales []AnnotatedSale, mgmtFeePercent, taxRate decimal.Decimal) Settlement {
	revenue := decimal.Zero
	for _, s := range sales {
		if s.Class.InvoiceRelevant() {
			revenue = revenue.Add(s.TotalValue)
		}
	}

	totalCosts := decimal.Zero
	for _, c := range costs {
		totalCosts = totalCosts.Add(c.TotalAmount)
	}

	fee := totalCosts.Mul(mgmtFeePercent).Div(decimal.NewFromInt(100))
	subtotal := totalCosts.Add(fee).Sub(revenue)
	tax := subtotal.Mul(taxRate)

	return Settlement{
		Revenue:        revenue,
		Costs:          totalCosts,
		MgmtFee:        fee,
		Subtotal:       subtotal,
		Tax:            tax,
		TotalDue:       subtotal.Add(tax),
		MgmtFeePercent: mgmtFeePercent,
		TaxRate:        taxRate,
	}
}
