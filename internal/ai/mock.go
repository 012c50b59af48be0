package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"forestry-finance/internal/core"
)

// MockExtractor is the offline ExtractorService used when no API key is
// configured. It derives a plausible vendor from the filename and a
// stable pseudo-amount from its hash, so demo runs are repeatable.
type MockExtractor struct{}

// NewMockExtractor returns a deterministic stand-in extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

func (m *MockExtractor) ExtractInvoices(_ context.Context, filename string, _ []byte) ([]core.ExtractedInvoice, error) {
	vendor := "Unknown"
	switch {
	case strings.Contains(filename, "Road"):
		vendor = "Road Maintenance"
	case strings.Contains(filename, "Harv"):
		vendor = "Groundbase Harvesting"
	case strings.Contains(filename, "Truck"):
		vendor = "Cartage"
	}

	h := fnv.New32a()
	h.Write([]byte(filename))
	amount := 1000 + int(h.Sum32()%19000)

	inv := core.ExtractedInvoice{
		Vendor:      vendor,
		InvoiceNo:   fmt.Sprintf("INV-%05d", 10000+int(h.Sum32()%90000)),
		InvoiceDate: time.Now().Format("2006-01-02"),
		Amount:      fmt.Sprintf("%d.00", amount),
		Description: "Mock extraction (no API key configured)",
		Filename:    filename,
	}
	inv.Normalize()
	return []core.ExtractedInvoice{inv}, nil
}
