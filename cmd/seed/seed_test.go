package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finease/internal/cache"
	"finease/internal/repository/memory"
	"finease/internal/service"
	"finease/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newSeedLedger() (*service.LedgerService, *service.SummaryService, *memory.Store) {
	store := memory.New()
	logger := zap.NewNop()
	return service.NewLedgerService(store, cache.Noop{}, metrics.NoOpCollector{}, logger),
		service.NewSummaryService(store, cache.Noop{}, metrics.NoOpCollector{}, logger),
		store
}

func TestSeedDemoTransactions(t *testing.T) {
	ledger, summaries, _ := newSeedLedger()
	ctx := context.Background()

	created, err := seed(ctx, ledger, demoTransactions("demo@x.com"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if created != 6 {
		t.Fatalf("created = %d, want 6", created)
	}

	s, err := summaries.Summarize(ctx, "demo@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Income.Equal(decimal.NewFromInt(5000)) || !s.Expenses.Equal(decimal.NewFromInt(1200)) || !s.Balance.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("summary = %+v", s)
	}
}

func TestSeedFileSkipsInvalidAndReruns(t *testing.T) {
	ledger, _, store := newSeedLedger()
	dir := t.TempDir()
	path := filepath.Join(dir, "tx.json")
	cacheFile := filepath.Join(dir, "cache.json")

	body := `[
		{"type":"income","category":"salary","amount":100,"description":"pay","ownerEmail":"a@x.com","date":"2025-07-01"},
		{"type":"gift","category":"misc","amount":5,"description":"bad type","ownerEmail":"a@x.com"},
		{"type":"expense","category":"food","amount":"12.5","description":"lunch","userEmail":"a@x.com"}
	]`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	created, err := seedFile(ctx, ledger, path, cacheFile, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if created != 2 || store.Len() != 2 {
		t.Fatalf("created = %d, stored = %d, want 2", created, store.Len())
	}

	created, err = seedFile(ctx, ledger, path, cacheFile, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if created != 0 || store.Len() != 2 {
		t.Fatalf("rerun should be skipped, created = %d, stored = %d", created, store.Len())
	}

	if err := os.WriteFile(path, []byte(`[{"type":"income","category":"bonus","amount":1,"description":"x","ownerEmail":"a@x.com"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	created, err = seedFile(ctx, ledger, path, cacheFile, zap.NewNop())
	if err != nil || created != 1 {
		t.Fatalf("changed file should be seeded, created = %d, err = %v", created, err)
	}
}

func TestSeedFileRejectsMalformedJSON(t *testing.T) {
	ledger, _, _ := newSeedLedger()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := seedFile(context.Background(), ledger, path, filepath.Join(dir, "c.json"), zap.NewNop()); err == nil {
		t.Fatal("expected parse error")
	}
}
