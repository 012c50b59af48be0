package core_test

import (
	"testing"

	"forestry-finance/internal/core"
)

func TestExtractedInvoice_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   core.ExtractedInvoice
		want core.ExtractedInvoice
	}{
		{
			name: "strips currency formatting",
			in:   core.ExtractedInvoice{Vendor: " Acme ", InvoiceNo: "INV-1", Amount: "$12,500.00", Description: "roading"},
			want: core.ExtractedInvoice{Vendor: "Acme", InvoiceNo: "INV-1", Amount: "12500.00", Description: "roading"},
		},
		{
			name: "blank fields get defaults",
			in:   core.ExtractedInvoice{},
			want: core.ExtractedInvoice{Vendor: "Unknown", InvoiceNo: "Unknown", Amount: "0.00", Description: "N/A"},
		},
		{
			name: "literal null amount",
			in:   core.ExtractedInvoice{Vendor: "X", InvoiceNo: "1", Amount: "null", Description: "d"},
			want: core.ExtractedInvoice{Vendor: "X", InvoiceNo: "1", Amount: "0.00", Description: "d"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Normalize()
			if got.Vendor != tt.want.Vendor || got.InvoiceNo != tt.want.InvoiceNo ||
				got.Amount != tt.want.Amount || got.Description != tt.want.Description {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractedInvoice_AmountDecimal(t *testing.T) {
	inv := core.ExtractedInvoice{Amount: "1234.56"}
	if !inv.AmountDecimal().Equal(dec("1234.56")) {
		t.Errorf("AmountDecimal() = %s", inv.AmountDecimal())
	}

	bad := core.ExtractedInvoice{Amount: "twelve dollars"}
	if !bad.AmountDecimal().IsZero() {
		t.Errorf("unparseable amount should degrade to zero, got %s", bad.AmountDecimal())
	}
}
