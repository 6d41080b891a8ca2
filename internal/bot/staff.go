package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nekoprojects/nekobot/internal/store"
)

// StaffList is the in-memory staff registry: a fixed owner plus the
// dev/sudo ranks loaded from the staff store. Single writer (Load),
// many concurrent readers from command handlers.
type StaffList struct {
	mu    sync.RWMutex
	owner int64
	ranks map[string][]int64
}

// NewStaffList creates a registry with only the owner set. The
// dev/sudo ranks are absent until the first Load.
func NewStaffList(owner int64) *StaffList {
	return &StaffList{
		owner: owner,
		ranks: make(map[string][]int64),
	}
}

// Load replaces the dev and sudo ranks with the store contents,
// preserving store iteration order. Any prior contents of those ranks
// are discarded, so Load is idempotent but destructive of runtime-only
// additions. Store errors propagate and leave the registry unchanged.
func (s *StaffList) Load(ctx context.Context, st store.StaffStore) error {
	fresh := map[string][]int64{
		store.RankDev:  {},
		store.RankSudo: {},
	}
	err := st.ForEachStaff(ctx, func(rec store.StaffRecord) error {
		if _, ok := fresh[rec.Rank]; !ok {
			return fmt.Errorf("unknown staff rank %q for user %d", rec.Rank, rec.UserID)
		}
		fresh[rec.Rank] = append(fresh[rec.Rank], rec.UserID)
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ranks = fresh
	s.mu.Unlock()
	return nil
}

// Owner returns the owner's user ID.
func (s *StaffList) Owner() int64 { return s.owner }

// StaffIDs returns the owner followed by all dev then all sudo IDs,
// in load order. Duplicates in the store show up as duplicates here.
func (s *StaffList) StaffIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, 1+len(s.ranks[store.RankDev])+len(s.ranks[store.RankSudo]))
	ids = append(ids, s.owner)
	ids = append(ids, s.ranks[store.RankDev]...)
	ids = append(ids, s.ranks[store.RankSudo]...)
	return ids
}

// IsStaff reports whether id is the owner or in any loaded rank.
func (s *StaffList) IsStaff(id int64) bool {
	if id == s.owner {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rank := range s.ranks {
		for _, staffID := range rank {
			if staffID == id {
				return true
			}
		}
	}
	return false
}

// String renders the registry as indented JSON for the /stats command.
func (s *StaffList) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dump := map[string]any{"owner": s.owner}
	for rank, ids := range s.ranks {
		dump[rank] = ids
	}
	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Sprintf("owner: %d", s.owner)
	}
	return string(out)
}
