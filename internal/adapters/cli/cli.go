package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"forestry-finance/internal/app"
	"forestry-finance/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	company, err := svc.LoadDefaultCompany(ctx)
	if err != nil {
		log.Fatalf("Failed to load company: %v", err)
	}

	switch args[0] {
	case "settlement", "set", "s":
		req := settlementArgs(company.ID, args[1:])
		bundle, err := svc.GetSettlement(ctx, req)
		if err != nil {
			log.Fatalf("Settlement failed: %v", err)
		}
		printSettlement(company, req.Period, bundle)

	case "export", "exp", "e":
		req := app.FinanceExportRequest{SettlementRequest: settlementArgs(company.ID, args[1:])}
		if len(args) >= 4 {
			req.Reference = args[3]
		}
		if err := svc.WriteFinanceExportCSV(ctx, req, os.Stdout); err != nil {
			log.Fatalf("Export failed: %v", err)
		}

	case "invoice", "inv", "i":
		req := app.InvoiceRequest{SettlementRequest: settlementArgs(company.ID, args[1:])}
		if len(args) >= 4 {
			req.InvoiceNo = args[3]
		}
		req.BillTo = company.Name
		if err := svc.RenderInvoice(ctx, req, os.Stdout); err != nil {
			log.Fatalf("Invoice render failed: %v", err)
		}

	case "variance", "var", "v":
		if len(args) < 2 {
			log.Fatal("Usage: app variance <YYYY-MM>")
		}
		period, err := core.ParsePeriod(args[1])
		if err != nil {
			log.Fatalf("Invalid period: %v", err)
		}
		report, err := svc.GetVariance(ctx, company.ID, period)
		if err != nil {
			log.Fatalf("Variance failed: %v", err)
		}
		printVariance(company, period, report)

	case "extract", "ext", "x":
		if len(args) < 2 {
			log.Fatal("Usage: app extract <file.pdf> [file.pdf ...]")
		}
		docs := make([]app.UploadedDocument, 0, len(args)-1)
		for _, path := range args[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Fatalf("Failed to read %s: %v", path, err)
			}
			docs = append(docs, app.UploadedDocument{Filename: path, Data: data})
		}
		result := svc.ExtractInvoices(ctx, docs)
		for _, f := range result.Failed {
			fmt.Fprintf(os.Stderr, "extraction failed for %s: %s\n", f.Filename, f.Reason)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Invoices)

	case "reconcile", "rec", "r":
		if len(args) < 2 {
			log.Fatal("Usage: app reconcile <YYYY-MM> < invoices.json")
		}
		period, err := core.ParsePeriod(args[1])
		if err != nil {
			log.Fatalf("Invalid period: %v", err)
		}
		var invoices []core.ExtractedInvoice
		if err := json.NewDecoder(os.Stdin).Decode(&invoices); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		results := svc.ReconcileInvoices(ctx, company.ID, period, invoices)
		printReconciliation(results)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: settlement, export, invoice, variance, extract, reconcile", args[0])
	}
}

// settlementArgs parses <YYYY-MM> [fee%] from positional args.
func settlementArgs(companyID int, args []string) app.SettlementRequest {
	if len(args) < 1 {
		log.Fatal("Usage: app <command> <YYYY-MM> [fee%]")
	}
	period, err := core.ParsePeriod(args[0])
	if err != nil {
		log.Fatalf("Invalid period: %v", err)
	}
	req := app.SettlementRequest{CompanyID: companyID, Period: period}
	if len(args) >= 2 {
		pct, err := decimal.NewFromString(args[1])
		if err != nil || pct.IsNegative() {
			log.Fatalf("Invalid fee percent: %s", args[1])
		}
		req.MgmtFeePercent = pct
	}
	return req
}

func printSettlement(company *core.Company, period core.Period, bundle *core.SettlementBundle) {
	s := bundle.Result
	title := "SETTLEMENT"
	if s.IsCreditNote() {
		title = "SETTLEMENT (CREDIT POSITION)"
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-58s\n", title)
	fmt.Printf("  Company  : %s — %s\n", company.CompanyCode, company.Name)
	fmt.Printf("  Period   : %s\n", period.Label())
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-40s %19s\n", "Operational Costs", s.Costs.StringFixed(2))
	fmt.Printf("  %-40s %19s\n", fmt.Sprintf("Management Fee (%s%%)", s.MgmtFeePercent.String()), s.MgmtFee.StringFixed(2))
	fmt.Printf("  %-40s %19s\n", "Less: Log Sales Revenue", s.Revenue.Neg().StringFixed(2))
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-40s %19s\n", "Subtotal (ex tax)", s.Subtotal.StringFixed(2))
	fmt.Printf("  %-40s %19s\n", "GST", s.Tax.StringFixed(2))
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-40s %19s\n", "TOTAL DUE", s.TotalDue.StringFixed(2))
	fmt.Println(strings.Repeat("=", 62))
}

func printVariance(company *core.Company, period core.Period, report *core.VarianceReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  BUDGET vs ACTUAL — %s — %s\n", company.CompanyCode, period.Label())
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-30s %14s %14s %14s\n", "ACTIVITY", "BUDGET", "ACTUAL", "VARIANCE")
	fmt.Println(strings.Repeat("-", 78))
	for _, line := range report.Lines {
		fmt.Printf("  %-30s %14s %14s %14s\n",
			line.ActivityName, line.Budget.StringFixed(2), line.Actual.StringFixed(2), line.Variance.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 78))
	fmt.Printf("  %-30s %14s %14s %14s\n",
		"TOTAL", report.TotalBudget.StringFixed(2), report.TotalActual.StringFixed(2), report.TotalVariance.StringFixed(2))
	fmt.Println(strings.Repeat("=", 78))
}

func printReconciliation(results []core.ReconcileResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("  %-28s %-14s %12s %12s %-10s\n", "VENDOR", "INVOICE", "INVOICED", "ERP", "STATUS")
	fmt.Println(strings.Repeat("-", 90))
	for _, res := range results {
		fmt.Printf("  %-28s %-14s %12s %12s %-10s\n",
			res.Invoice.Vendor, res.Invoice.InvoiceNo,
			res.Invoice.AmountDecimal().StringFixed(2),
			res.ERPAmount.StringFixed(2), res.Status)
	}
	fmt.Println(strings.Repeat("=", 90))
}
