package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// Store persists inventory snapshots in Postgres. All writes are
// insert-or-update on the table's natural key, and an update only happens
// when at least one column actually changed, so re-running a collection
// against unchanged infrastructure leaves every row untouched.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// Connect opens a pooled connection and verifies it with a ping.
func Connect(ctx context.Context, dsn string, logger zerolog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	logger.Info().Str("database", cfg.ConnConfig.Database).Msg("connected to postgres")
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// InitSchema creates the inventory tables if they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	s.logger.Info().Msg("schema initialized")
	return nil
}

// UpsertAccount writes one account record.
func (s *Store) UpsertAccount(ctx context.Context, account types.Account) (bool, error) {
	return s.upsertRow(ctx, accountsTable, account.Columns())
}

// UpsertInstance writes one compute snapshot.
func (s *Store) UpsertInstance(ctx context.Context, snap types.ComputeResourceSnapshot) (bool, error) {
	return s.upsertRow(ctx, computeTable, snap.Columns())
}

// UpsertBucket writes one bucket snapshot.
func (s *Store) UpsertBucket(ctx context.Context, snap types.BucketSnapshot) (bool, error) {
	return s.upsertRow(ctx, bucketsTable, snap.Columns())
}

// UpsertFunction writes one function snapshot.
func (s *Store) UpsertFunction(ctx context.Context, snap types.FunctionSnapshot) (bool, error) {
	return s.upsertRow(ctx, functionsTable, snap.Columns())
}

// upsertRow fetches the stored row for the record's key, then either inserts
// the record, updates only the changed columns, or does nothing. The bool
// reports whether a write happened.
func (s *Store) upsertRow(ctx context.Context, spec tableSpec, record map[string]string) (bool, error) {
	key, ok := record[spec.keyCol]
	if !ok || key == "" {
		return false, fmt.Errorf("record for %s has no %s", spec.name, spec.keyCol)
	}

	existing, found, err := s.fetchRow(ctx, spec, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s row %q: %w", spec.name, key, err)
	}

	if !found {
		if err := s.insertRow(ctx, spec, record); err != nil {
			return false, fmt.Errorf("failed to insert %s row %q: %w", spec.name, key, err)
		}
		s.logger.Debug().Str("table", spec.name).Str("key", key).Msg("row inserted")
		return true, nil
	}

	changed := changedColumns(spec.columns, existing, record)
	if len(changed) == 0 {
		return false, nil
	}
	if err := s.updateRow(ctx, spec, key, record, changed); err != nil {
		return false, fmt.Errorf("failed to update %s row %q: %w", spec.name, key, err)
	}
	s.logger.Debug().
		Str("table", spec.name).
		Str("key", key).
		Strs("columns", changed).
		Msg("row updated")
	return true, nil
}

func (s *Store) fetchRow(ctx context.Context, spec tableSpec, key string) (map[string]string, bool, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		strings.Join(spec.columns, ", "), spec.name, spec.keyCol,
	)

	values := make([]*string, len(spec.columns))
	dest := make([]any, len(spec.columns))
	for i := range values {
		dest[i] = &values[i]
	}

	if err := s.pool.QueryRow(ctx, query, key).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	existing := make(map[string]string, len(spec.columns))
	for i, col := range spec.columns {
		if values[i] != nil {
			existing[col] = *values[i]
		}
	}
	return existing, true, nil
}

func (s *Store) insertRow(ctx context.Context, spec tableSpec, record map[string]string) error {
	cols := intersectColumns(spec.columns, record)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[col]
	}

	// Concurrent first sightings of the same resource race to insert;
	// the loser's row is already there, which is the same outcome.
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		spec.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "), spec.keyCol,
	)
	_, err := s.pool.Exec(ctx, query, args...)
	return err
}

func (s *Store) updateRow(ctx context.Context, spec tableSpec, key string, record map[string]string, changed []string) error {
	assignments := make([]string, len(changed))
	args := make([]any, 0, len(changed)+1)
	for i, col := range changed {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, record[col])
	}
	args = append(args, key)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		spec.name, strings.Join(assignments, ", "), spec.keyCol, len(changed)+1,
	)
	_, err := s.pool.Exec(ctx, query, args...)
	return err
}
