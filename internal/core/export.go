package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

// ExportRowType tags which settlement bucket a ledger-import row came from.
type ExportRowType string

const (
	ExportDebitCost     ExportRowType = "Debit (Cost)"
	ExportDebitFee      ExportRowType = "Debit (Fee)"
	ExportCreditRevenue ExportRowType = "Credit (Rev)"
)

// DefaultFeeGL is the reserved account the management fee posts to when
// the company has no explicit Fee mapping.
var DefaultFeeGL = GLEntry{Code: "6000-MGMT", Name: "Management Fees"}

// FinanceExportRow is one line of the ledger-import file. Credits carry
// negative amounts per the import convention of the receiving finance
// system.
type FinanceExportRow struct {
	Type        ExportRowType   `json:"type"`
	GLAccount   string          `json:"gl_account"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
}

type glBucketKey struct {
	code string
	name string
}

// BuildFinanceExport flattens a settlement into GL-coded import rows:
// one debit row per cost GL bucket, a single management-fee debit, then
// one negated credit row per revenue GL bucket of the invoice-relevant
// sales. Each section is ordered by GL code ascending so repeated exports
// are byte-identical. Every row carries reference unchanged.
func BuildFinanceExport(costs []AnnotatedCost, sales []AnnotatedSale, settlement Settlement, reference string, feeGL GLEntry) []FinanceExportRow {
	if feeGL.Code == "" {
		feeGL = DefaultFeeGL
	}

	costSums := make(map[glBucketKey]decimal.Decimal)
	for _, c := range costs {
		k := glBucketKey{c.GLCode, c.GLName}
		costSums[k] = costSums[k].Add(c.TotalAmount)
	}
	rows := bucketRows(ExportDebitCost, costSums, reference)

	rows = append(rows, FinanceExportRow{
		Type:        ExportDebitFee,
		GLAccount:   feeGL.Code,
		AccountName: feeGL.Name,
		Amount:      settlement.MgmtFee,
		Reference:   reference,
	})

	revSums := make(map[glBucketKey]decimal.Decimal)
	for _, s := range sales {
		if !s.Class.InvoiceRelevant() {
			continue
		}
		k := glBucketKey{s.GLCode, s.GLName}
		revSums[k] = revSums[k].Add(s.TotalValue.Neg())
	}
	rows = append(rows, bucketRows(ExportCreditRevenue, revSums, reference)...)

	return rows
}

// bucketRows emits one row per GL bucket, sorted by code then name for
// deterministic output.
func bucketRows(rowType ExportRowType, sums map[glBucketKey]decimal.Decimal, reference string) []FinanceExportRow {
	keys := make([]glBucketKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].name < keys[j].name
	})

	rows := make([]FinanceExportRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, FinanceExportRow{
			Type:        rowType,
			GLAccount:   k.code,
			AccountName: k.name,
			Amount:      sums[k],
			Reference:   reference,
		})
	}
	return rows
}

// WriteFinanceExportCSV writes rows in the AP-import CSV layout. Amounts
// are rounded to cents here, at the export boundary only.
func WriteFinanceExportCSV(w io.Writer, rows []FinanceExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Type", "GL Account", "Account Name", "Amount", "Reference"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			string(row.Type),
			row.GLAccount,
			row.AccountName,
			row.Amount.StringFixed(2),
			row.Reference,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
