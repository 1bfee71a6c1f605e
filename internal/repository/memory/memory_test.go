package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"finease/internal/models"
	"finease/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ repository.Store = (*Store)(nil)

func newTx(owner string, typ models.TransactionType, amount int64, day int) *models.Transaction {
	at := time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC)
	return &models.Transaction{
		ID:          uuid.New(),
		Type:        typ,
		Category:    "misc",
		Amount:      decimal.NewFromInt(amount),
		Description: "t",
		Date:        at,
		OwnerEmail:  owner,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx := newTx("a@x.com", models.TransactionTypeIncome, 100, 1)
	if err := s.Create(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, tx); err == nil {
		t.Fatal("expected duplicate id to fail")
	}

	got, err := s.GetByID(ctx, tx.ID)
	if err != nil || got.ID != tx.ID {
		t.Fatalf("get: tx=%v err=%v", got, err)
	}
	got.Category = "mutated"
	if again, _ := s.GetByID(ctx, tx.ID); again.Category != "misc" {
		t.Fatal("store leaked internal state")
	}

	upd := tx.Clone()
	upd.Amount = decimal.NewFromInt(150)
	upd.OwnerEmail = "b@x.com"
	if err := s.Update(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.GetByID(ctx, tx.ID)
	if !got.Amount.Equal(decimal.NewFromInt(150)) || got.OwnerEmail != "a@x.com" {
		t.Fatalf("unexpected updated record %+v", got)
	}

	if err := s.Update(ctx, newTx("a@x.com", models.TransactionTypeIncome, 1, 1)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("update missing: got %v", err)
	}

	n, err := s.Delete(ctx, tx.ID)
	if err != nil || n != 1 {
		t.Fatalf("delete: n=%d err=%v", n, err)
	}
	n, err = s.Delete(ctx, tx.ID)
	if err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}
	if _, err := s.GetByID(ctx, tx.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("get deleted: got %v", err)
	}
}

func TestStoreListAndSum(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, tx := range []*models.Transaction{
		newTx("a@x.com", models.TransactionTypeIncome, 5000, 3),
		newTx("a@x.com", models.TransactionTypeExpense, 1200, 1),
		newTx("a@x.com", models.TransactionTypeExpense, 300, 2),
		newTx("b@x.com", models.TransactionTypeIncome, 99, 4),
	} {
		if err := s.Create(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListByOwner(ctx, "a@x.com", models.SortAmountAsc)
	if err != nil || len(list) != 3 {
		t.Fatalf("list: len=%d err=%v", len(list), err)
	}
	if list[0].Amount.IntPart() != 300 || list[2].Amount.IntPart() != 5000 {
		t.Fatalf("unexpected order: %v, %v", list[0].Amount, list[2].Amount)
	}
	for _, tx := range list {
		if tx.OwnerEmail != "a@x.com" {
			t.Fatalf("foreign record %+v", tx)
		}
	}

	list, _ = s.ListByOwner(ctx, "a@x.com", models.SortDateDesc)
	if list[0].Date.Day() != 3 || list[2].Date.Day() != 1 {
		t.Fatalf("unexpected date order")
	}

	empty, err := s.ListByOwner(ctx, "nobody@x.com", models.SortDateDesc)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v err=%v", empty, err)
	}

	sums, _ := s.SumByType(ctx, "a@x.com")
	if !sums[models.TransactionTypeIncome].Equal(decimal.NewFromInt(5000)) ||
		!sums[models.TransactionTypeExpense].Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected sums %v", sums)
	}
}
