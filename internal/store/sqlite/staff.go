package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nekoprojects/nekobot/internal/store"
)

// SQLiteStaffStore implements store.StaffStore backed by a local
// SQLite file. Used in standalone mode; the schema is created on open.
type SQLiteStaffStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS staff (
	user_id    INTEGER PRIMARY KEY,
	rank       TEXT NOT NULL CHECK (rank IN ('dev', 'sudo')),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Open creates (if needed) and opens the staff database at path.
func Open(path string) (*SQLiteStaffStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init staff schema: %w", err)
	}
	return &SQLiteStaffStore{db: db}, nil
}

func (s *SQLiteStaffStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStaffStore) ForEachStaff(ctx context.Context, fn func(store.StaffRecord) error) error {
	// rowid preserves insertion order.
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, rank FROM staff ORDER BY rowid`)
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

func (s *SQLiteStaffStore) AddStaff(ctx context.Context, rec store.StaffRecord) error {
	if !store.ValidRank(rec.Rank) {
		return fmt.Errorf("invalid rank %q", rec.Rank)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staff (user_id, rank) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET rank = excluded.rank`,
		rec.UserID, rec.Rank)
	if err != nil {
		return fmt.Errorf("add staff: %w", err)
	}
	return nil
}

func (s *SQLiteStaffStore) RemoveStaff(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM staff WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("remove staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *SQLiteStaffStore) Close() error {
	return s.db.Close()
}
