package statestore

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, path
}

func TestLoadEmptyDatabase(t *testing.T) {
	store, _ := openTestStore(t)

	snap := store.Load(context.Background())
	if len(snap.Sent) != 0 || len(snap.Seen) != 0 {
		t.Errorf("fresh database should load empty, got %d sent, %d seen", len(snap.Sent), len(snap.Seen))
	}
	if snap.QuotaUsed != 0 {
		t.Errorf("QuotaUsed = %d, want 0", snap.QuotaUsed)
	}
}

func TestSaveAndReload(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	snap := store.Load(ctx)
	snap.MarkAlerted("solana:pool1", now)
	snap.RecordSeen("solana:pool1", "LOW", now)
	snap.RecordSeen("base:pool2", "HIGH", now)
	snap.QuotaDay = "2026-08-31"
	snap.QuotaUsed = 2

	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Load(ctx)

	if last, ok := got.Sent["solana:pool1"]; !ok || !last.Equal(now) {
		t.Errorf("Sent[solana:pool1] = %v, %v; want %v", last, ok, now)
	}
	if level, ok := got.PreviousRisk("base:pool2"); !ok || level != "HIGH" {
		t.Errorf("PreviousRisk(base:pool2) = %q, %v; want HIGH", level, ok)
	}
	if got.QuotaDay != "2026-08-31" || got.QuotaUsed != 2 {
		t.Errorf("quota = %s/%d, want 2026-08-31/2", got.QuotaDay, got.QuotaUsed)
	}
}

func TestSaveIsUpsert(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(26 * time.Hour)

	snap := store.Load(ctx)
	snap.MarkAlerted("solana:pool1", t1)
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	snap = store.Load(ctx)
	snap.MarkAlerted("solana:pool1", t2)
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got := store.Load(ctx)
	if last := got.Sent["solana:pool1"]; !last.Equal(t2) {
		t.Errorf("Sent[solana:pool1] = %v, want %v", last, t2)
	}
}

func TestCooldownWindow(t *testing.T) {
	snap := &Snapshot{Sent: map[string]time.Time{}, Seen: map[string]SeenEntry{}}
	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	cooldown := 24 * time.Hour

	if !snap.CanAlert("k", base, cooldown) {
		t.Error("never-alerted key should be eligible")
	}

	snap.MarkAlerted("k", base)

	if snap.CanAlert("k", base.Add(cooldown-time.Minute), cooldown) {
		t.Error("key one minute before cooldown expiry should be suppressed")
	}
	if !snap.CanAlert("k", base.Add(cooldown), cooldown) {
		t.Error("key at exactly cooldown expiry should be eligible")
	}
}

func TestDailyQuotaReset(t *testing.T) {
	snap := &Snapshot{
		Sent:      map[string]time.Time{},
		Seen:      map[string]SeenEntry{},
		QuotaDay:  "2026-08-30",
		QuotaUsed: 3,
	}

	// Same day in a UTC+5 reporting zone: 2026-08-30 23:00 UTC is already
	// 2026-08-31 locally, so the counter resets.
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)

	snap.ResetDailyIfNeeded(now, loc)
	if snap.QuotaUsed != 0 || snap.QuotaDay != "2026-08-31" {
		t.Errorf("after reset: day=%s used=%d, want 2026-08-31/0", snap.QuotaDay, snap.QuotaUsed)
	}

	snap.ConsumeQuota()
	snap.ConsumeQuota()
	if got := snap.QuotaRemaining(3); got != 1 {
		t.Errorf("QuotaRemaining = %d, want 1", got)
	}

	snap.ResetDailyIfNeeded(now.Add(time.Minute), loc)
	if snap.QuotaUsed != 2 {
		t.Errorf("same-day reset should not clear counter, got %d", snap.QuotaUsed)
	}
}
