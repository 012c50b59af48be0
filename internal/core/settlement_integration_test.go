package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"forestry-finance/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE fact_operational_costs, actual_sales_transactions, dim_gl_mappings,
		               dim_cost_activities, dim_products, invoice_archive, users, companies
		RESTART IDENTITY CASCADE;

		INSERT INTO companies (id, company_code, name, base_currency) VALUES (1, 'FCO', 'Test Forestry Co', 'NZD');

		INSERT INTO dim_cost_activities (id, activity_name, category) VALUES
		(1, 'Groundbase Harvesting', 'Harvesting'),
		(2, 'Cartage', 'Distribution'),
		(3, 'Road Maintenance', 'Roading');

		INSERT INTO dim_products (id, grade_code, grade_name) VALUES
		(1, 'P1', 'Pruned Saw Log'),
		(2, 'S2', 'Structural Saw Log Small');

		INSERT INTO dim_gl_mappings (company_id, item_type, item_id, gl_code, gl_name) VALUES
		(1, 'Cost', 1, '5100-HARV', 'Harvesting Costs'),
		(1, 'Cost', 2, '5200-CART', 'Cartage & Distribution'),
		(1, 'Revenue', 1, '4100-LOGS', 'Log Sales Revenue');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func seedJanuaryFacts(t *testing.T, pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `
		INSERT INTO fact_operational_costs (company_id, activity_id, month, record_type, quantity, unit_rate, total_amount) VALUES
		(1, 1, '2026-01-01', 'Actual', 100, 10, 1000),
		(1, 2, '2026-01-01', 'Actual', 50, 8, 400),
		(1, 3, '2026-01-01', 'Actual', 1, 250, 250),
		(1, 1, '2026-01-01', 'Budget', 100, 9, 900);

		INSERT INTO actual_sales_transactions (company_id, date, ticket_number, sale_type, grade_id, net_tonnes, price, total_value) VALUES
		(1, '2026-01-10', 'T-100', 'Purchase (Inv)', 1, 10, 50, 500),
		(1, '2026-01-15', 'T-101', 'Direct (Non-Inv)', 2, 20, 60, 1200),
		(1, '2026-02-01', 'T-102', 'Purchase (Inv)', 1, 5, 50, 250);
	`)
	if err != nil {
		t.Fatalf("Failed to seed facts: %v", err)
	}
}

func TestSettlementService_PrepareSettlement(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedJanuaryFacts(t, pool)

	ctx := context.Background()
	svc := core.NewSettlementService(core.NewFetchService(pool), core.NewMappingService(pool))
	period := core.Period{Year: 2026, Month: 1}

	bundle, err := svc.PrepareSettlement(ctx, 1, period, dec("10"), dec("0.15"))
	if err != nil {
		t.Fatalf("PrepareSettlement: %v", err)
	}

	// Budget rows and February tickets stay out of the snapshot.
	if len(bundle.Costs) != 3 {
		t.Errorf("expected 3 Actual cost rows, got %d", len(bundle.Costs))
	}
	if len(bundle.Sales) != 2 {
		t.Errorf("expected 2 January sales, got %d", len(bundle.Sales))
	}

	s := bundle.Result
	// costs 1650, fee 165, revenue 500 (Direct excluded).
	if !s.Costs.Equal(dec("1650")) {
		t.Errorf("Costs = %s", s.Costs)
	}
	if !s.Revenue.Equal(dec("500")) {
		t.Errorf("Revenue = %s", s.Revenue)
	}
	if !s.Subtotal.Equal(dec("1315")) {
		t.Errorf("Subtotal = %s", s.Subtotal)
	}
	if !s.TotalDue.Equal(dec("1512.25")) {
		t.Errorf("TotalDue = %s", s.TotalDue)
	}

	// Road Maintenance has no mapping and must degrade, not drop.
	var unmapped int
	for _, c := range bundle.Costs {
		if c.GLCode == core.GLUnmapped {
			unmapped++
			if c.GLName != "Road Maintenance" {
				t.Errorf("unmapped GL name = %q", c.GLName)
			}
		}
	}
	if unmapped != 1 {
		t.Errorf("expected 1 unmapped cost row, got %d", unmapped)
	}

	// No Fee mapping seeded, so the default fee account applies.
	if bundle.FeeGL != core.DefaultFeeGL {
		t.Errorf("FeeGL = %+v", bundle.FeeGL)
	}
}

func TestMappingService_UpsertAndReload(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewMappingService(pool)

	report, err := svc.UpsertMappings(ctx, 1, []core.GLMappingRow{
		{ItemType: core.ItemCost, ItemID: 3, GLCode: "5300-ROAD", GLName: "Roading Costs"},
		{ItemType: core.ItemCost, ItemID: 1, GLCode: "5150-HARV", GLName: "Harvesting Costs v2"}, // overwrite
		{ItemType: "Fee", ItemID: 0, GLCode: "6100-FEES", GLName: "Forest Management Fees"},
	})
	if err != nil {
		t.Fatalf("UpsertMappings: %v", err)
	}
	if !report.AllSaved() || report.Saved != 3 {
		t.Fatalf("report = %+v", report)
	}

	glMap, err := svc.LoadGLMap(ctx, 1)
	if err != nil {
		t.Fatalf("LoadGLMap: %v", err)
	}
	if entry, ok := glMap.Cost(3); !ok || entry.Code != "5300-ROAD" {
		t.Errorf("Cost(3) = %+v, %v", entry, ok)
	}
	if entry, ok := glMap.Cost(1); !ok || entry.Code != "5150-HARV" {
		t.Errorf("Cost(1) after overwrite = %+v, %v", entry, ok)
	}
	if got := glMap.FeeGL(); got.Code != "6100-FEES" {
		t.Errorf("FeeGL() = %+v, want explicit mapping", got)
	}
}

func TestEntryService_CostUpsertIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewEntryService(pool)
	period := core.Period{Year: 2026, Month: 3}

	entries := []core.CostEntry{
		{ActivityID: 1, Quantity: dec("100"), UnitRate: dec("12.50")}, // total derived
	}
	if report := svc.SaveCostEntries(ctx, 1, period, core.RecordActual, entries); !report.AllSaved() {
		t.Fatalf("first save: %+v", report)
	}

	entries[0].UnitRate = dec("13.00")
	if report := svc.SaveCostEntries(ctx, 1, period, core.RecordActual, entries); !report.AllSaved() {
		t.Fatalf("second save: %+v", report)
	}

	fetch := core.NewFetchService(pool)
	costs, err := fetch.FetchCostRecords(ctx, 1, period, core.RecordActual)
	if err != nil {
		t.Fatalf("FetchCostRecords: %v", err)
	}
	if len(costs) != 1 {
		t.Fatalf("upsert should keep one row per key, got %d", len(costs))
	}
	if !costs[0].TotalAmount.Equal(dec("1300")) {
		t.Errorf("total = %s, want derived 1300", costs[0].TotalAmount)
	}
}

func TestVarianceService_GetVariance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedJanuaryFacts(t, pool)

	ctx := context.Background()
	svc := core.NewVarianceService(pool)

	report, err := svc.GetVariance(ctx, 1, core.Period{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("GetVariance: %v", err)
	}

	if !report.TotalBudget.Equal(dec("900")) {
		t.Errorf("TotalBudget = %s", report.TotalBudget)
	}
	if !report.TotalActual.Equal(dec("1650")) {
		t.Errorf("TotalActual = %s", report.TotalActual)
	}
	if !report.TotalVariance.Equal(dec("-750")) {
		t.Errorf("TotalVariance = %s", report.TotalVariance)
	}
}

func TestFetchService_EmptyPeriodIsNotAnError(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	fetch := core.NewFetchService(pool)
	period := core.Period{Year: 2031, Month: 6}

	costs, err := fetch.FetchCostRecords(ctx, 1, period, core.RecordActual)
	if err != nil {
		t.Fatalf("FetchCostRecords: %v", err)
	}
	if costs == nil || len(costs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", costs)
	}

	sales, err := fetch.FetchSalesRecords(ctx, 1, period)
	if err != nil {
		t.Fatalf("FetchSalesRecords: %v", err)
	}
	if sales == nil || len(sales) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", sales)
	}
}
