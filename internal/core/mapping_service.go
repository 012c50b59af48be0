package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GLMap is an immutable per-company snapshot of the GL mapping table,
// loaded once per settlement computation. Lookups are O(1); a miss is a
// normal condition handled by the annotator's UNMAPPED fallback.
type GLMap struct {
	cost    map[int]GLEntry // activity_id → GL account
	revenue map[int]GLEntry // grade_id    → GL account
	fee     *GLEntry        // optional explicit Fee mapping
}

// NewGLMap builds a snapshot from explicit maps. Used by tests and by
// callers that already hold the mapping rows.
func NewGLMap(cost, revenue map[int]GLEntry) *GLMap {
	if cost == nil {
		cost = map[int]GLEntry{}
	}
	if revenue == nil {
		revenue = map[int]GLEntry{}
	}
	return &GLMap{cost: cost, revenue: revenue}
}

// Cost resolves a cost-activity ID to its GL account.
func (m *GLMap) Cost(activityID int) (GLEntry, bool) {
	if m == nil {
		return GLEntry{}, false
	}
	e, ok := m.cost[activityID]
	return e, ok
}

// Revenue resolves a product-grade ID to its GL account.
func (m *GLMap) Revenue(gradeID int) (GLEntry, bool) {
	if m == nil {
		return GLEntry{}, false
	}
	e, ok := m.revenue[gradeID]
	return e, ok
}

// FeeGL returns the account the management fee posts to: the company's
// explicit Fee mapping when one exists, otherwise DefaultFeeGL.
func (m *GLMap) FeeGL() GLEntry {
	if m != nil && m.fee != nil {
		return *m.fee
	}
	return DefaultFeeGL
}

// MappingService loads GL mapping snapshots and maintains the mapping table.
type MappingService interface {
	// LoadGLMap bulk-loads all mapping rows for a company in one query.
	// A company with no mappings yields a valid empty map, not an error.
	LoadGLMap(ctx context.Context, companyID int) (*GLMap, error)

	// UpsertMappings replaces or inserts mapping rows, keyed on
	// (company_id, item_type, item_id). Used by the chart-of-accounts
	// upload screen.
	UpsertMappings(ctx context.Context, companyID int, rows []GLMappingRow) (*PersistReport, error)
}

// GLMappingRow is one row of the dim_gl_mappings table.
type GLMappingRow struct {
	ItemType ItemType `json:"item_type"`
	ItemID   int      `json:"item_id"`
	GLCode   string   `json:"gl_code"`
	GLName   string   `json:"gl_name"`
}

type mappingService struct {
	pool *pgxpool.Pool
}

// NewMappingService constructs a MappingService backed by PostgreSQL.
func NewMappingService(pool *pgxpool.Pool) MappingService {
	return &mappingService{pool: pool}
}

func (s *mappingService) LoadGLMap(ctx context.Context, companyID int) (*GLMap, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_type, item_id, gl_code, gl_name
		FROM dim_gl_mappings
		WHERE company_id = $1`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query GL mappings for company %d: %w", companyID, err)
	}
	defer rows.Close()

	m := NewGLMap(nil, nil)
	for rows.Next() {
		var itemType string
		var itemID int
		var entry GLEntry
		if err := rows.Scan(&itemType, &itemID, &entry.Code, &entry.Name); err != nil {
			return nil, fmt.Errorf("failed to scan GL mapping row: %w", err)
		}
		switch ItemType(itemType) {
		case ItemCost:
			m.cost[itemID] = entry
		case ItemRevenue:
			m.revenue[itemID] = entry
		case "Fee":
			e := entry
			m.fee = &e
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GL mapping row iteration error: %w", err)
	}
	return m, nil
}

func (s *mappingService) UpsertMappings(ctx context.Context, companyID int, mappings []GLMappingRow) (*PersistReport, error) {
	report := &PersistReport{}
	for i, row := range mappings {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO dim_gl_mappings (company_id, item_type, item_id, gl_code, gl_name)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (company_id, item_type, item_id)
			DO UPDATE SET gl_code = EXCLUDED.gl_code, gl_name = EXCLUDED.gl_name`,
			companyID, string(row.ItemType), row.ItemID, row.GLCode, row.GLName,
		)
		if err != nil {
			report.Failed = append(report.Failed, PersistFailure{
				Index:  i,
				Key:    fmt.Sprintf("%s/%d", row.ItemType, row.ItemID),
				Reason: err.Error(),
			})
			continue
		}
		report.Saved++
	}
	return report, nil
}
