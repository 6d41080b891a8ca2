package store

import (
	"context"
	"errors"
)

// Staff ranks recognized by the registry. The owner is not stored;
// it comes from config.
const (
	RankDev  = "dev"
	RankSudo = "sudo"
)

// ErrNotFound is returned when a staff record does not exist.
var ErrNotFound = errors.New("staff record not found")

// StaffRecord is one row of the STAFF collection: a Telegram user ID
// and its permission rank.
type StaffRecord struct {
	UserID int64
	Rank   string
}

// StaffStore is the persistence interface for staff records.
// Implementations: pg (Postgres, managed deployments) and sqlite
// (standalone, default).
type StaffStore interface {
	// Ping verifies the underlying connection is usable.
	Ping(ctx context.Context) error

	// ForEachStaff iterates every staff record in stable store order,
	// calling fn for each. Iteration stops on the first error, which
	// is propagated to the caller.
	ForEachStaff(ctx context.Context, fn func(StaffRecord) error) error

	// AddStaff inserts or updates a staff record.
	AddStaff(ctx context.Context, rec StaffRecord) error

	// RemoveStaff deletes a staff record. Returns ErrNotFound if the
	// user is not staff.
	RemoveStaff(ctx context.Context, userID int64) error

	// Close releases the underlying connection pool.
	Close() error
}

// ValidRank reports whether rank is one the registry understands.
func ValidRank(rank string) bool {
	return rank == RankDev || rank == RankSudo
}
