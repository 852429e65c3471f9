package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds the connection to the integration test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL. ok is false when it is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS businesses (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		business_type TEXT NOT NULL,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS memberships (
		id UUID PRIMARY KEY,
		membership_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses(id),
		amount NUMERIC(12, 3) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		membership_id UUID REFERENCES memberships(id),
		item_id UUID REFERENCES items(id),
		quantity INT,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses(id),
		cost NUMERIC(12, 3) NOT NULL,
		description TEXT,
		spent_at TIMESTAMPTZ NOT NULL,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS attractions (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses(id),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		job_title TEXT,
		hourly_wage NUMERIC(10, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		attraction_id UUID REFERENCES attractions(id),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS shift_assignments (
		id UUID PRIMARY KEY,
		shift_id UUID NOT NULL REFERENCES shifts(id),
		employee_id UUID NOT NULL REFERENCES employees(id),
		total_hours NUMERIC(6, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clock_times (
		id UUID PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id),
		shift_id UUID REFERENCES shifts(id),
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ
	)`,
}

// Migrate creates the report tables when they are missing
func (t *TestDatabaseSetup) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := t.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// TruncateAllTables removes every row from the report tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"clock_times",
		"shift_assignments",
		"shifts",
		"attractions",
		"employees",
		"expenses",
		"transactions",
		"items",
		"memberships",
		"businesses",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
