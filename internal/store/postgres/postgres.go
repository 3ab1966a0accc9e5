// Package postgres implements store.LeadSource over a PostgreSQL lead
// catalog. The service only reads from the catalog; rows are loaded by
// whatever CRM process owns the table.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Catalog reads leads from the leads table.
type Catalog struct {
	db *sql.DB
}

var (
	_ store.LeadSource = (*Catalog)(nil)
	_ store.Querier    = (*Catalog)(nil)
)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*Catalog, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Catalog{db: db}, nil
}

// NewWithDB wraps an open database without running migrations.
func NewWithDB(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// ListLeads returns the whole catalog in insertion order.
func (c *Catalog) ListLeads(ctx context.Context) ([]model.Lead, error) {
	leads, _, err := queryListLeads(ctx, c.db, store.Query{})
	return leads, err
}

// QueryLeads returns the catalog rows matching q.
func (c *Catalog) QueryLeads(ctx context.Context, q store.Query) ([]model.Lead, int, error) {
	return queryListLeads(ctx, c.db, q)
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}
