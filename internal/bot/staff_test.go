package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/nekoprojects/nekobot/internal/store"
)

// fakeStaffStore is an in-memory store.StaffStore for unit tests.
type fakeStaffStore struct {
	records    []store.StaffRecord
	iterErr    error
	pingErr    error
	closeCalls int32
}

func (f *fakeStaffStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStaffStore) ForEachStaff(_ context.Context, fn func(store.StaffRecord) error) error {
	if f.iterErr != nil {
		return f.iterErr
	}
	for _, rec := range f.records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStaffStore) AddStaff(_ context.Context, rec store.StaffRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStaffStore) RemoveStaff(_ context.Context, userID int64) error {
	for i, rec := range f.records {
		if rec.UserID == userID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStaffStore) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

func int64sEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStaffIDsOrder(t *testing.T) {
	st := &fakeStaffStore{records: []store.StaffRecord{
		{UserID: 10, Rank: store.RankSudo},
		{UserID: 20, Rank: store.RankDev},
		{UserID: 30, Rank: store.RankDev},
		{UserID: 10, Rank: store.RankSudo}, // duplicates are preserved
	}}

	s := NewStaffList(1)
	if err := s.Load(context.Background(), st); err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []int64{1, 20, 30, 10, 10}
	if got := s.StaffIDs(); !int64sEqual(got, want) {
		t.Fatalf("staff IDs = %v, want %v", got, want)
	}
}

func TestStaffLoadReplacesPriorContents(t *testing.T) {
	s := NewStaffList(1)

	first := &fakeStaffStore{records: []store.StaffRecord{
		{UserID: 2, Rank: store.RankDev},
		{UserID: 3, Rank: store.RankSudo},
	}}
	if err := s.Load(context.Background(), first); err != nil {
		t.Fatalf("first load: %v", err)
	}

	second := &fakeStaffStore{records: []store.StaffRecord{
		{UserID: 4, Rank: store.RankSudo},
	}}
	if err := s.Load(context.Background(), second); err != nil {
		t.Fatalf("second load: %v", err)
	}

	want := []int64{1, 4}
	if got := s.StaffIDs(); !int64sEqual(got, want) {
		t.Fatalf("staff IDs after reload = %v, want %v (no accumulation)", got, want)
	}
}

func TestStaffIDsBeforeLoad(t *testing.T) {
	s := NewStaffList(42)
	if got := s.StaffIDs(); !int64sEqual(got, []int64{42}) {
		t.Fatalf("staff IDs before load = %v, want [42]", got)
	}
}

func TestStaffLoadPropagatesStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	st := &fakeStaffStore{iterErr: boom}

	s := NewStaffList(1)
	if err := s.Load(context.Background(), st); !errors.Is(err, boom) {
		t.Fatalf("load error = %v, want %v", err, boom)
	}
}

func TestStaffLoadRejectsUnknownRank(t *testing.T) {
	st := &fakeStaffStore{records: []store.StaffRecord{
		{UserID: 2, Rank: "wizard"},
	}}

	s := NewStaffList(1)
	if err := s.Load(context.Background(), st); err == nil {
		t.Fatal("expected an error for unknown rank, got nil")
	}
	// A failed load leaves the registry unchanged.
	if got := s.StaffIDs(); !int64sEqual(got, []int64{1}) {
		t.Fatalf("staff IDs after failed load = %v, want [1]", got)
	}
}

func TestIsStaff(t *testing.T) {
	st := &fakeStaffStore{records: []store.StaffRecord{
		{UserID: 2, Rank: store.RankDev},
	}}
	s := NewStaffList(1)
	if err := s.Load(context.Background(), st); err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, tc := range []struct {
		id   int64
		want bool
	}{
		{1, true},  // owner
		{2, true},  // dev
		{3, false}, // stranger
	} {
		if got := s.IsStaff(tc.id); got != tc.want {
			t.Errorf("IsStaff(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
