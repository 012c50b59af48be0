// restore-seed is a one-shot tool to restore the dimension seed data.
// Run it when the cost activities, log grades, or GL mappings have been
// accidentally wiped.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"

	"forestry-finance/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Restoring company...")
	_, err = tx.Exec(ctx, `
		INSERT INTO companies (company_code, name, base_currency)
		VALUES ('FCO', 'Forestry Company Operations Ltd', 'NZD')
		ON CONFLICT (company_code) DO UPDATE
		  SET name = EXCLUDED.name,
		      base_currency = EXCLUDED.base_currency;
	`)
	if err != nil {
		log.Fatalf("Failed to restore company: %v", err)
	}

	log.Println("Restoring cost activities...")
	_, err = tx.Exec(ctx, `
		INSERT INTO dim_cost_activities (activity_name, category)
		VALUES
		    ('Groundbase Harvesting', 'Harvesting'),
		    ('Hauler Harvesting',     'Harvesting'),
		    ('Cartage',               'Distribution'),
		    ('Road Maintenance',      'Roading'),
		    ('Road Construction',     'Roading'),
		    ('Loading',               'Distribution'),
		    ('Supervision',           'Overhead')
		ON CONFLICT (activity_name) DO UPDATE
		  SET category = EXCLUDED.category;
	`)
	if err != nil {
		log.Fatalf("Failed to restore cost activities: %v", err)
	}

	log.Println("Restoring log grades...")
	_, err = tx.Exec(ctx, `
		INSERT INTO dim_products (grade_code, grade_name)
		VALUES
		    ('P1',   'Pruned Saw Log'),
		    ('S1',   'Structural Saw Log Large'),
		    ('S2',   'Structural Saw Log Small'),
		    ('KI',   'Industrial Export'),
		    ('KIS',  'Industrial Export Small'),
		    ('Pulp', 'Pulp Log')
		ON CONFLICT (grade_code) DO UPDATE
		  SET grade_name = EXCLUDED.grade_name;
	`)
	if err != nil {
		log.Fatalf("Failed to restore log grades: %v", err)
	}

	log.Println("Restoring GL mappings...")
	_, err = tx.Exec(ctx, `
		INSERT INTO dim_gl_mappings (company_id, item_type, item_id, gl_code, gl_name)
		SELECT c.id, m.item_type, a.id, m.gl_code, m.gl_name
		FROM companies c
		JOIN (VALUES
		    ('Cost', 'Groundbase Harvesting', '5100-HARV', 'Harvesting Costs'),
		    ('Cost', 'Hauler Harvesting',     '5100-HARV', 'Harvesting Costs'),
		    ('Cost', 'Cartage',               '5200-CART', 'Cartage & Distribution'),
		    ('Cost', 'Road Maintenance',      '5300-ROAD', 'Roading Costs'),
		    ('Cost', 'Road Construction',     '5300-ROAD', 'Roading Costs'),
		    ('Cost', 'Loading',               '5200-CART', 'Cartage & Distribution'),
		    ('Cost', 'Supervision',           '5400-OVHD', 'Forest Overheads')
		) AS m(item_type, activity_name, gl_code, gl_name)
		  ON true
		JOIN dim_cost_activities a ON a.activity_name = m.activity_name
		WHERE c.company_code = 'FCO'
		ON CONFLICT (company_id, item_type, item_id) DO UPDATE
		  SET gl_code = EXCLUDED.gl_code,
		      gl_name = EXCLUDED.gl_name;
	`)
	if err != nil {
		log.Fatalf("Failed to restore cost GL mappings: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO dim_gl_mappings (company_id, item_type, item_id, gl_code, gl_name)
		SELECT c.id, 'Revenue', p.id, '4100-LOGS', 'Log Sales Revenue'
		FROM companies c
		CROSS JOIN dim_products p
		WHERE c.company_code = 'FCO'
		ON CONFLICT (company_id, item_type, item_id) DO UPDATE
		  SET gl_code = EXCLUDED.gl_code,
		      gl_name = EXCLUDED.gl_name;
	`)
	if err != nil {
		log.Fatalf("Failed to restore revenue GL mappings: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO dim_gl_mappings (company_id, item_type, item_id, gl_code, gl_name)
		SELECT c.id, 'Fee', 0, '6000-MGMT', 'Management Fees'
		FROM companies c
		WHERE c.company_code = 'FCO'
		ON CONFLICT (company_id, item_type, item_id) DO UPDATE
		  SET gl_code = EXCLUDED.gl_code,
		      gl_name = EXCLUDED.gl_name;
	`)
	if err != nil {
		log.Fatalf("Failed to restore fee GL mapping: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data restored.")
}
