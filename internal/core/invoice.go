package core

import (
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"
)

// InvoiceItem is one printed statement line: a description and a signed
// amount. Negative amounts render in parentheses as credits.
type InvoiceItem struct {
	Description string
	Amount      decimal.Decimal
}

// InvoiceDoc is everything the statement template needs. It carries only
// precomputed figures — the renderer does no arithmetic of its own.
type InvoiceDoc struct {
	InvoiceNo   string
	InvoiceDate string
	BillTo      string
	IssuedBy    string
	PeriodLabel string
	Items       []InvoiceItem
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	TaxRate     decimal.Decimal
	TotalDue    decimal.Decimal
	CreditNote  bool
}

// Title returns the document heading.
func (d InvoiceDoc) Title() string {
	if d.CreditNote {
		return "CREDIT NOTE"
	}
	return "INVOICE"
}

// BuildInvoiceDoc assembles the itemized statement from an annotated
// settlement bundle: one line per cost activity, the management fee, then
// one credit line per invoice-relevant sale grade.
func BuildInvoiceDoc(costs []AnnotatedCost, sales []AnnotatedSale, settlement Settlement, invoiceNo, invoiceDate, billTo, issuedBy, periodLabel string) InvoiceDoc {
	doc := InvoiceDoc{
		InvoiceNo:   invoiceNo,
		InvoiceDate: invoiceDate,
		BillTo:      billTo,
		IssuedBy:    issuedBy,
		PeriodLabel: periodLabel,
		Subtotal:    settlement.Subtotal,
		Tax:         settlement.Tax,
		TaxRate:     settlement.TaxRate,
		TotalDue:    settlement.TotalDue,
		CreditNote:  settlement.IsCreditNote(),
	}

	for _, c := range costs {
		doc.Items = append(doc.Items, InvoiceItem{
			Description: c.ActivityName,
			Amount:      c.TotalAmount,
		})
	}
	if !settlement.MgmtFee.IsZero() {
		doc.Items = append(doc.Items, InvoiceItem{
			Description: fmt.Sprintf("Management Fee (%s%%)", settlement.MgmtFeePercent.String()),
			Amount:      settlement.MgmtFee,
		})
	}
	for _, s := range sales {
		if s.Class.InvoiceRelevant() {
			doc.Items = append(doc.Items, InvoiceItem{
				Description: fmt.Sprintf("Less: Log Sales %s (%s)", s.GradeCode, s.TicketNumber),
				Amount:      s.TotalValue.Neg(),
			})
		}
	}
	return doc
}

// money formats a decimal for display, wrapping negatives in parentheses.
func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "($" + d.Neg().StringFixed(2) + ")"
	}
	return "$" + d.StringFixed(2)
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": money,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; padding: 20px; }
  .invoice-box { max-width: 800px; margin: auto; border: 1px solid #eee; padding: 30px; }
  table { width: 100%; border-collapse: collapse; }
  .text-right { text-align: right; }
  .item td { border-bottom: 1px solid #eee; padding: 6px 0; }
  .total td { border-top: 2px solid #eee; font-weight: bold; padding-top: 8px; }
</style>
</head>
<body>
<div class="invoice-box">
<table>
  <tr>
    <td><h1>{{.Title}}</h1></td>
    <td class="text-right">#{{.InvoiceNo}}<br>{{.InvoiceDate}}</td>
  </tr>
  <tr>
    <td><strong>{{.IssuedBy}}</strong><br>Period: {{.PeriodLabel}}</td>
    <td class="text-right"><strong>Bill To:</strong><br>{{.BillTo}}</td>
  </tr>
{{- range .Items}}
  <tr class="item"><td>{{.Description}}</td><td class="text-right">{{money .Amount}}</td></tr>
{{- end}}
  <tr class="item"><td>Subtotal (ex tax)</td><td class="text-right">{{money .Subtotal}}</td></tr>
  <tr class="item"><td>GST</td><td class="text-right">{{money .Tax}}</td></tr>
  <tr class="total"><td></td><td class="text-right">Total: {{money .TotalDue}}</td></tr>
</table>
</div>
</body>
</html>
`))

// RenderInvoiceHTML writes the statement document. Free-text fields
// (activity names, bill-to) pass through html/template's contextual
// escaping, so reserved characters in names cannot break the markup.
func RenderInvoiceHTML(w io.Writer, doc InvoiceDoc) error {
	if err := invoiceTmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("render invoice %s: %w", doc.InvoiceNo, err)
	}
	return nil
}
