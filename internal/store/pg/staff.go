package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nekoprojects/nekobot/internal/store"
)

// PGStaffStore implements store.StaffStore backed by Postgres.
// Schema lives in migrations/ and is applied via `nekobot migrate up`.
type PGStaffStore struct {
	db *sql.DB
}

// OpenDB opens a pgx-backed *sql.DB for the given DSN.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewPGStaffStore creates a staff store over an open Postgres handle.
func NewPGStaffStore(db *sql.DB) *PGStaffStore {
	return &PGStaffStore{db: db}
}

func (s *PGStaffStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PGStaffStore) ForEachStaff(ctx context.Context, fn func(store.StaffRecord) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, rank FROM staff ORDER BY created_at, user_id`)
	if err != nil {
		return fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec store.StaffRecord
		if err := rows.Scan(&rec.UserID, &rec.Rank); err != nil {
			return fmt.Errorf("scan staff row: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate staff: %w", err)
	}
	return nil
}

func (s *PGStaffStore) AddStaff(ctx context.Context, rec store.StaffRecord) error {
	if !store.ValidRank(rec.Rank) {
		return fmt.Errorf("invalid rank %q", rec.Rank)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staff (user_id, rank) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET rank = EXCLUDED.rank`,
		rec.UserID, rec.Rank)
	if err != nil {
		return fmt.Errorf("add staff: %w", err)
	}
	return nil
}

func (s *PGStaffStore) RemoveStaff(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM staff WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("remove staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PGStaffStore) Close() error {
	return s.db.Close()
}
