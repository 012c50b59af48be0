package core_test

import (
	"bytes"
	"strings"
	"testing"

	"forestry-finance/internal/core"
)

func TestBuildInvoiceDoc(t *testing.T) {
	costs := []core.AnnotatedCost{
		{CostRecord: core.CostRecord{ActivityName: "Groundbase Harvesting", TotalAmount: dec("1000")}},
	}
	sales := []core.AnnotatedSale{
		{SalesRecord: core.SalesRecord{GradeCode: "P1", TicketNumber: "T-100", TotalValue: dec("500")}, Class: core.SalePurchase},
		{SalesRecord: core.SalesRecord{GradeCode: "S2", TicketNumber: "T-101", TotalValue: dec("9999")}, Class: core.SaleDirect},
	}
	settlement := core.ComputeSettlement(costs, sales, dec("10"), dec("0.15"))

	doc := core.BuildInvoiceDoc(costs, sales, settlement, "INV-001", "2026-01-31", "Forest Owner Ltd", "FCO Management", "Jan 2026")

	if doc.Title() != "INVOICE" {
		t.Errorf("Title() = %q", doc.Title())
	}
	// Cost line + fee line + one Purchase credit line. The Direct sale
	// never appears on the statement.
	if len(doc.Items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(doc.Items), doc.Items)
	}
	if doc.Items[1].Description != "Management Fee (10%)" {
		t.Errorf("fee line = %q", doc.Items[1].Description)
	}
	if doc.Items[2].Description != "Less: Log Sales P1 (T-100)" {
		t.Errorf("credit line = %q", doc.Items[2].Description)
	}
	if !doc.Items[2].Amount.IsNegative() {
		t.Errorf("credit line amount should be negative, got %s", doc.Items[2].Amount)
	}
}

func TestBuildInvoiceDoc_ZeroFeeOmitsLine(t *testing.T) {
	costs := []core.AnnotatedCost{
		{CostRecord: core.CostRecord{ActivityName: "Cartage", TotalAmount: dec("100")}},
	}
	settlement := core.ComputeSettlement(costs, nil, dec("0"), dec("0.15"))
	doc := core.BuildInvoiceDoc(costs, nil, settlement, "INV-002", "", "", "", "")

	for _, item := range doc.Items {
		if strings.Contains(item.Description, "Management Fee") {
			t.Errorf("zero fee should not produce a fee line: %+v", item)
		}
	}
}

func TestBuildInvoiceDoc_CreditNoteTitle(t *testing.T) {
	sales := []core.AnnotatedSale{
		{SalesRecord: core.SalesRecord{GradeCode: "P1", TotalValue: dec("1000")}, Class: core.SalePurchase},
	}
	settlement := core.ComputeSettlement(nil, sales, dec("0"), dec("0.15"))
	doc := core.BuildInvoiceDoc(nil, sales, settlement, "CN-001", "", "", "", "")

	if !doc.CreditNote || doc.Title() != "CREDIT NOTE" {
		t.Errorf("expected credit note, got CreditNote=%v Title=%q", doc.CreditNote, doc.Title())
	}
}

func TestRenderInvoiceHTML_EscapesFreeText(t *testing.T) {
	costs := []core.AnnotatedCost{
		{CostRecord: core.CostRecord{ActivityName: `Roading <script>alert("x")</script>`, TotalAmount: dec("100")}},
	}
	settlement := core.ComputeSettlement(costs, nil, dec("0"), dec("0.15"))
	doc := core.BuildInvoiceDoc(costs, nil, settlement, "INV-003", "2026-01-31", `Bill & Co <b>`, "FCO", "Jan 2026")

	var buf bytes.Buffer
	if err := core.RenderInvoiceHTML(&buf, doc); err != nil {
		t.Fatalf("RenderInvoiceHTML: %v", err)
	}
	html := buf.String()

	if strings.Contains(html, "<script>") {
		t.Error("activity name was not escaped")
	}
	if !strings.Contains(html, "Bill &amp; Co") {
		t.Error("bill-to was not escaped")
	}
	if !strings.Contains(html, "INVOICE") {
		t.Error("missing document title")
	}
	if !strings.Contains(html, "$115.00") {
		t.Errorf("missing total due, html:\n%s", html)
	}
}

func TestRenderInvoiceHTML_NegativeAmountsParenthesized(t *testing.T) {
	sales := []core.AnnotatedSale{
		{SalesRecord: core.SalesRecord{GradeCode: "P1", TicketNumber: "T-1", TotalValue: dec("500")}, Class: core.SalePurchase},
	}
	settlement := core.ComputeSettlement(nil, sales, dec("0"), dec("0.15"))
	doc := core.BuildInvoiceDoc(nil, sales, settlement, "CN-002", "", "", "", "")

	var buf bytes.Buffer
	if err := core.RenderInvoiceHTML(&buf, doc); err != nil {
		t.Fatalf("RenderInvoiceHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "($500.00)") {
		t.Error("credit amount should render in parentheses")
	}
}
