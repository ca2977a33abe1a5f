package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a row addressed by id does not exist
var ErrNotFound = errors.New("not found")

// Default settings seeded into an empty business_settings table
const (
	DefaultVATRate        = 5.0
	DefaultUSDToLocalRate = 3.6725
)

type Store struct {
	db *sqlx.DB
}

// NewStore opens the connection pool. It does not dial: an unreachable
// database surfaces later through Ping and the first query.
func NewStore(databaseURL string, maxOpenConns, maxIdleConns int) (*Store, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing connection
func NewStoreFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables and seeds the settings row when none exists
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_settings (id, vat_rate, usd_to_local_rate)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (SELECT 1 FROM business_settings)`,
		uuid.NewString(), DefaultVATRate, DefaultUSDToLocalRate)
	if err != nil {
		return fmt.Errorf("failed to seed business settings: %w", err)
	}
	return nil
}

// assignments collects the SET clause of a partial update
type assignments struct {
	cols []string
	args []interface{}
}

func (a *assignments) set(col string, val interface{}) {
	a.args = append(a.args, val)
	a.cols = append(a.cols, fmt.Sprintf("%s = $%d", col, len(a.args)))
}

func (a *assignments) setNull(col string) {
	a.cols = append(a.cols, col+" = NULL")
}

// updateQuery renders the UPDATE statement. updated_at is always refreshed,
// so an empty patch still touches the row.
func (a *assignments) updateQuery(table, id string) (string, []interface{}) {
	cols := append(append([]string(nil), a.cols...), "updated_at = NOW()")
	args := append(append([]interface{}(nil), a.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(cols, ", "), len(args))
	return query, args
}

// execUpdate runs a partial update and maps zero affected rows to ErrNotFound
func (s *Store) execUpdate(ctx context.Context, table, entity, id string, a *assignments) error {
	query, args := a.updateQuery(table, id)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
