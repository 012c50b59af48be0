package ai_test

import (
	"context"
	"errors"
	"testing"

	"forestry-finance/internal/ai"
)

func TestParseExtraction(t *testing.T) {
	content := `{"invoices":[
		{"vendor":" Groundbase Harvesting ","invoice_no":"INV-10023","invoice_date":"2026-01-15","amount":"$12,500.00","description":"January harvesting"},
		{"vendor":"","invoice_no":"","invoice_date":"","amount":"","description":""}
	]}`

	invoices, err := ai.ParseExtraction("jan_invoices.pdf", content)
	if err != nil {
		t.Fatalf("ParseExtraction: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invoices))
	}

	first := invoices[0]
	if first.Vendor != "Groundbase Harvesting" {
		t.Errorf("vendor = %q", first.Vendor)
	}
	if first.Amount != "12500.00" {
		t.Errorf("amount = %q, want normalized 12500.00", first.Amount)
	}
	if first.Filename != "jan_invoices.pdf" {
		t.Errorf("filename = %q", first.Filename)
	}

	second := invoices[1]
	if second.Vendor != "Unknown" || second.Amount != "0.00" {
		t.Errorf("blank invoice not defaulted: %+v", second)
	}
}

func TestParseExtraction_InvalidJSON(t *testing.T) {
	_, err := ai.ParseExtraction("bad.pdf", "I could not read this document")
	if err == nil {
		t.Fatal("expected error for non-JSON content")
	}

	var extractionErr *ai.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if extractionErr.Filename != "bad.pdf" {
		t.Errorf("Filename = %q", extractionErr.Filename)
	}
}

func TestParseExtraction_EmptyBatch(t *testing.T) {
	invoices, err := ai.ParseExtraction("empty.pdf", `{"invoices":[]}`)
	if err != nil {
		t.Fatalf("ParseExtraction: %v", err)
	}
	if len(invoices) != 0 {
		t.Errorf("expected no invoices, got %d", len(invoices))
	}
}

func TestMockExtractor_Deterministic(t *testing.T) {
	mock := ai.NewMockExtractor()
	ctx := context.Background()

	a, err := mock.ExtractInvoices(ctx, "Road_Jan.pdf", nil)
	if err != nil {
		t.Fatalf("ExtractInvoices: %v", err)
	}
	b, err := mock.ExtractInvoices(ctx, "Road_Jan.pdf", nil)
	if err != nil {
		t.Fatalf("ExtractInvoices: %v", err)
	}

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected single invoice per file, got %d and %d", len(a), len(b))
	}
	if a[0].Vendor != "Road Maintenance" {
		t.Errorf("vendor = %q", a[0].Vendor)
	}
	if a[0].Amount != b[0].Amount || a[0].InvoiceNo != b[0].InvoiceNo {
		t.Errorf("same filename should give identical results: %+v vs %+v", a[0], b[0])
	}
}
