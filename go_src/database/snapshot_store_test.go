package database

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupSnapshotStoreTest(t *testing.T) *SnapshotStore {
	t.Helper()
	store := NewSnapshotStore(setupTestDB(t))
	if err := store.CreateSchema(); err != nil {
		t.Fatalf("Failed to create balance_snapshots schema: %v", err)
	}
	return store
}

func sampleSnapshot(accountID string, takenAt time.Time) *BalanceSnapshot {
	return &BalanceSnapshot{
		AccountID:          accountID,
		AccountType:        "margin",
		TotalEquity:        decimal.RequireFromString("17798.36"),
		TotalCash:          decimal.RequireFromString("4343.38"),
		CashAvailable:      decimal.RequireFromString("4343.38"),
		MarketValue:        decimal.RequireFromString("13454.98"),
		OpenPL:             decimal.RequireFromString("-12.5"),
		ClosePL:            decimal.RequireFromString("0"),
		PendingOrdersCount: 2,
		TakenAt:            takenAt,
	}
}

func TestSnapshotStore_CreateSchema(t *testing.T) {
	store := setupSnapshotStoreTest(t)

	var tableName string
	err := store.tdb.DB().QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = 'balance_snapshots';").Scan(&tableName)
	if err != nil {
		t.Fatalf("Table 'balance_snapshots' was not created: %v", err)
	}
	// Idempotent.
	if err := store.CreateSchema(); err != nil {
		t.Errorf("Second CreateSchema failed: %v", err)
	}
}

func TestSnapshotStore_SaveAndLatest(t *testing.T) {
	store := setupSnapshotStoreTest(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	snap := sampleSnapshot("VA000001", now)
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := uuid.Parse(snap.ID); err != nil {
		t.Errorf("Save should assign a UUID, got %q", snap.ID)
	}

	got, err := store.Latest("VA000001")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.ID != snap.ID || got.AccountType != "margin" || got.PendingOrdersCount != 2 {
		t.Errorf("Unexpected snapshot: %+v", got)
	}
	if !got.TotalEquity.Equal(snap.TotalEquity) || !got.OpenPL.Equal(snap.OpenPL) || !got.MarketValue.Equal(snap.MarketValue) {
		t.Errorf("Money fields not preserved exactly: %+v", got)
	}
	if !got.TakenAt.Equal(now) {
		t.Errorf("Expected TakenAt %v, got %v", now, got.TakenAt)
	}
}

func TestSnapshotStore_SaveDefaults(t *testing.T) {
	store := setupSnapshotStoreTest(t)

	snap := sampleSnapshot("VA000001", time.Time{})
	before := time.Now().UTC().Add(-time.Second)
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if snap.TakenAt.Before(before) {
		t.Errorf("TakenAt should default to now, got %v", snap.TakenAt)
	}
}

func TestSnapshotStore_SaveInvalid(t *testing.T) {
	store := setupSnapshotStoreTest(t)

	if err := store.Save(nil); err == nil {
		t.Error("Save(nil) should fail")
	}
	if err := store.Save(&BalanceSnapshot{}); err == nil {
		t.Error("Save without account ID should fail")
	}

	snap := sampleSnapshot("VA000001", time.Now().UTC())
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	dup := *snap
	if err := store.Save(&dup); err == nil {
		t.Error("Saving a duplicate ID should fail")
	}
}

func TestSnapshotStore_LatestNotFound(t *testing.T) {
	store := setupSnapshotStoreTest(t)

	_, err := store.Latest("VA404")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestSnapshotStore_List(t *testing.T) {
	store := setupSnapshotStoreTest(t)
	base := time.Date(2026, 10, 14, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		snap := sampleSnapshot("VA000001", base.Add(time.Duration(i)*time.Minute))
		snap.PendingOrdersCount = int64(i)
		if err := store.Save(snap); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}
	if err := store.Save(sampleSnapshot("VA000002", base)); err != nil {
		t.Fatalf("Save other account failed: %v", err)
	}

	all, err := store.List("VA000001", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].TakenAt.After(all[i-1].TakenAt) {
			t.Errorf("Snapshots not ordered newest first: %v then %v", all[i-1].TakenAt, all[i].TakenAt)
		}
	}
	if all[0].PendingOrdersCount != 2 {
		t.Errorf("Expected newest snapshot first, got %+v", all[0])
	}

	limited, err := store.List("VA000001", 2)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 snapshots with limit, got %d", len(limited))
	}

	none, err := store.List("VA404", 10)
	if err != nil {
		t.Fatalf("List for unknown account failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no snapshots, got %d", len(none))
	}
}
