package core_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"forestry-finance/internal/core"
)

func exportFixture() ([]core.AnnotatedCost, []core.AnnotatedSale, core.Settlement) {
	costs := []core.AnnotatedCost{
		{CostRecord: core.CostRecord{TotalAmount: dec("300")}, GLCode: "5300-ROAD", GLName: "Roading Costs"},
		{CostRecord: core.CostRecord{TotalAmount: dec("700")}, GLCode: "5100-HARV", GLName: "Harvesting Costs"},
		{CostRecord: core.CostRecord{TotalAmount: dec("400")}, GLCode: "5100-HARV", GLName: "Harvesting Costs"},
	}
	sales := []core.AnnotatedSale{
		{SalesRecord: core.SalesRecord{TotalValue: dec("500")}, GLCode: "4100-LOGS", GLName: "Log Sales Revenue", Class: core.SalePurchase},
		{SalesRecord: core.SalesRecord{TotalValue: dec("250")}, GLCode: "4100-LOGS", GLName: "Log Sales Revenue", Class: core.SalePurchase},
		{SalesRecord: core.SalesRecord{TotalValue: dec("9999")}, GLCode: "4100-LOGS", GLName: "Log Sales Revenue", Class: core.SaleDirect},
	}
	settlement := core.ComputeSettlement(costs, sales, dec("10"), dec("0.15"))
	return costs, sales, settlement
}

func TestBuildFinanceExport_GroupingAndOrder(t *testing.T) {
	costs, sales, settlement := exportFixture()
	rows := core.BuildFinanceExport(costs, sales, settlement, "INV-001", core.GLEntry{})

	// 2 cost buckets + 1 fee + 1 revenue bucket.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d: %+v", len(rows), rows)
	}

	// Cost section ordered by GL code ascending.
	if rows[0].GLAccount != "5100-HARV" || !rows[0].Amount.Equal(dec("1100")) {
		t.Errorf("row 0 = %s %s, want 5100-HARV 1100", rows[0].GLAccount, rows[0].Amount)
	}
	if rows[1].GLAccount != "5300-ROAD" || !rows[1].Amount.Equal(dec("300")) {
		t.Errorf("row 1 = %s %s, want 5300-ROAD 300", rows[1].GLAccount, rows[1].Amount)
	}

	// Fee row uses the default account when none is mapped.
	if rows[2].Type != core.ExportDebitFee || rows[2].GLAccount != core.DefaultFeeGL.Code {
		t.Errorf("row 2 = %v %s, want fee row on %s", rows[2].Type, rows[2].GLAccount, core.DefaultFeeGL.Code)
	}
	if !rows[2].Amount.Equal(settlement.MgmtFee) {
		t.Errorf("fee amount = %s, want %s", rows[2].Amount, settlement.MgmtFee)
	}

	// Revenue credits are negated and exclude Direct sales.
	if rows[3].Type != core.ExportCreditRevenue || !rows[3].Amount.Equal(dec("-750")) {
		t.Errorf("row 3 = %v %s, want credit -750", rows[3].Type, rows[3].Amount)
	}

	for i, row := range rows {
		if row.Reference != "INV-001" {
			t.Errorf("row %d reference = %q", i, row.Reference)
		}
	}
}

func TestBuildFinanceExport_SumsMatchSettlement(t *testing.T) {
	costs, sales, settlement := exportFixture()
	rows := core.BuildFinanceExport(costs, sales, settlement, "REF", core.GLEntry{})

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	if !total.Equal(settlement.Subtotal) {
		t.Errorf("sum of export rows = %s, want subtotal %s", total, settlement.Subtotal)
	}
}

func TestBuildFinanceExport_FeeRowAlwaysPresent(t *testing.T) {
	settlement := core.ComputeSettlement(nil, nil, dec("0"), dec("0.15"))
	rows := core.BuildFinanceExport(nil, nil, settlement, "", core.GLEntry{})

	feeRows := 0
	for _, row := range rows {
		if row.Type == core.ExportDebitFee {
			feeRows++
		}
	}
	if feeRows != 1 {
		t.Errorf("expected exactly one fee row, got %d", feeRows)
	}
}

func TestBuildFinanceExport_ExplicitFeeGL(t *testing.T) {
	costs, sales, settlement := exportFixture()
	feeGL := core.GLEntry{Code: "6100-FEES", Name: "Forest Management Fees"}
	rows := core.BuildFinanceExport(costs, sales, settlement, "", feeGL)

	for _, row := range rows {
		if row.Type == core.ExportDebitFee {
			if row.GLAccount != "6100-FEES" || row.AccountName != "Forest Management Fees" {
				t.Errorf("fee row = %s/%s, want explicit mapping", row.GLAccount, row.AccountName)
			}
			return
		}
	}
	t.Fatal("no fee row found")
}

func TestWriteFinanceExportCSV(t *testing.T) {
	costs, sales, settlement := exportFixture()
	rows := core.BuildFinanceExport(costs, sales, settlement, "INV-001", core.GLEntry{})

	var buf bytes.Buffer
	if err := core.WriteFinanceExportCSV(&buf, rows); err != nil {
		t.Fatalf("WriteFinanceExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Type,GL Account,Account Name,Amount,Reference" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != len(rows)+1 {
		t.Errorf("expected %d lines, got %d", len(rows)+1, len(lines))
	}
	if !strings.Contains(lines[1], "1100.00") {
		t.Errorf("amounts should be rounded to cents: %q", lines[1])
	}
}
