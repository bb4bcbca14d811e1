package repository

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/testutil"
)

func runAlertLedgerTests(t *testing.T, ledger domain.AlertLedger) {
	ctx := context.Background()

	first, err := ledger.MarkDispatched(ctx, "decision-1")
	if err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}
	if !first {
		t.Error("first MarkDispatched() = false, want true")
	}

	again, err := ledger.MarkDispatched(ctx, "decision-1")
	if err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}
	if again {
		t.Error("repeated MarkDispatched() = true, want false")
	}

	other, err := ledger.MarkDispatched(ctx, "decision-2")
	if err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}
	if !other {
		t.Error("MarkDispatched() for another decision = false, want true")
	}

	if err := ledger.Release(ctx, "decision-1"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	afterRelease, err := ledger.MarkDispatched(ctx, "decision-1")
	if err != nil {
		t.Fatalf("MarkDispatched() error = %v", err)
	}
	if !afterRelease {
		t.Error("MarkDispatched() after Release() = false, want true")
	}
}

func TestMemoryAlertLedger(t *testing.T) {
	runAlertLedgerTests(t, NewMemoryAlertLedger(time.Hour))
}

func TestMemoryAlertLedger_Expiry(t *testing.T) {
	ledger := NewMemoryAlertLedger(time.Minute).(*memoryAlertLedger)
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	ctx := context.Background()
	if ok, _ := ledger.MarkDispatched(ctx, "decision-1"); !ok {
		t.Fatal("first MarkDispatched() = false")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := ledger.MarkDispatched(ctx, "decision-1"); !ok {
		t.Error("MarkDispatched() after expiry = false, want true")
	}
}

func TestRedisAlertLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	runAlertLedgerTests(t, NewRedisAlertLedger(client, time.Hour))

	ttl, err := client.TTL(ctx, alertKeyPrefix+"decision-2").Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL = %v, want within (0, 1h]", ttl)
	}
}
