package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validInput() TransactionInput {
	return TransactionInput{
		Type:        strPtr("income"),
		Category:    strPtr("salary"),
		Amount:      decPtr(5000),
		Description: strPtr("July pay"),
		OwnerEmail:  strPtr("a@x.com"),
	}
}

func violatedFields(t *testing.T, err error) map[string]bool {
	t.Helper()
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, v := range verr.Violations {
		fields[v.Field] = true
	}
	return fields
}

func TestValidateDefaultsDate(t *testing.T) {
	now := time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC)
	tx, err := Validate(validInput(), now)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !tx.Date.Equal(now) {
		t.Fatalf("date = %v, want %v", tx.Date, now)
	}
	if tx.Type != TransactionTypeIncome || tx.Category != "salary" || tx.OwnerEmail != "a@x.com" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("amount = %s", tx.Amount)
	}
}

func TestValidateKeepsSuppliedDate(t *testing.T) {
	in := validInput()
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	in.Date = &date

	tx, err := Validate(in, time.Now())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !tx.Date.Equal(date) || tx.Date.Location() != time.UTC {
		t.Fatalf("date = %v, want %v in UTC", tx.Date, date)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	_, err := Validate(TransactionInput{}, time.Now())
	fields := violatedFields(t, err)
	for _, f := range []string{"type", "category", "amount", "description", "ownerEmail"} {
		if !fields[f] {
			t.Errorf("missing violation for %s", f)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*TransactionInput)
		field string
	}{
		{"unknown type", func(in *TransactionInput) { in.Type = strPtr("transfer") }, "type"},
		{"zero amount", func(in *TransactionInput) { in.Amount = decPtr(0) }, "amount"},
		{"negative amount", func(in *TransactionInput) { in.Amount = decPtr(-10) }, "amount"},
		{"blank category", func(in *TransactionInput) { in.Category = strPtr("   ") }, "category"},
		{"empty description", func(in *TransactionInput) { in.Description = strPtr("") }, "description"},
		{"blank owner", func(in *TransactionInput) { in.OwnerEmail = strPtr(" ") }, "ownerEmail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, err := Validate(in, time.Now())
			fields := violatedFields(t, err)
			if !fields[tc.field] || len(fields) != 1 {
				t.Fatalf("violations = %v, want only %s", fields, tc.field)
			}
		})
	}
}

func TestApplyPatchMergesAndRevalidates(t *testing.T) {
	created := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	base, err := Validate(validInput(), created)
	if err != nil {
		t.Fatal(err)
	}
	base.ID = uuid.New()
	base.CreatedAt = created
	base.UpdatedAt = created

	now := created.Add(time.Hour)
	got, err := ApplyPatch(base, TransactionInput{Amount: decPtr(5200)}, now)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got.ID != base.ID || !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("server fields not carried over: %+v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(5200)) || got.Description != "July pay" || !got.Date.Equal(base.Date) {
		t.Fatalf("merge went wrong: %+v", got)
	}

	_, err = ApplyPatch(base, TransactionInput{Type: strPtr("gift")}, now)
	if fields := violatedFields(t, err); !fields["type"] {
		t.Fatalf("expected type violation, got %v", fields)
	}
}

func TestApplyPatchOwner(t *testing.T) {
	base, _ := Validate(validInput(), time.Now())
	base.ID = uuid.New()

	if _, err := ApplyPatch(base, TransactionInput{OwnerEmail: strPtr("a@x.com")}, time.Now()); err != nil {
		t.Fatalf("same owner should be accepted, got %v", err)
	}

	_, err := ApplyPatch(base, TransactionInput{OwnerEmail: strPtr("b@x.com")}, time.Now())
	if fields := violatedFields(t, err); !fields["ownerEmail"] {
		t.Fatalf("expected ownerEmail violation, got %v", fields)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := error(&ValidationError{Violations: []Violation{{"type", "is required"}, {"amount", "is required"}}})
	if got := err.Error(); got != "validation failed: type: is required; amount: is required" {
		t.Fatalf("unexpected message %q", got)
	}
	wrapped := errors.Join(errors.New("create"), err)
	if _, ok := AsValidationError(wrapped); !ok {
		t.Fatal("expected wrapped validation error to unwrap")
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(map[TransactionType]decimal.Decimal{
		TransactionTypeIncome:  decimal.NewFromInt(5000),
		TransactionTypeExpense: decimal.NewFromInt(1200),
	})
	if !s.Balance.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("balance = %s", s.Balance)
	}

	empty := NewSummary(nil)
	if !empty.Income.IsZero() || !empty.Expenses.IsZero() || !empty.Balance.IsZero() {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestValidateDropsInvalidUTF8(t *testing.T) {
	in := validInput()
	in.Description = strPtr("caf\xe9 bill")

	tx, err := Validate(in, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if tx.Description != "caf bill" {
		t.Fatalf("description = %q", tx.Description)
	}
}

func TestValidateAmountBounds(t *testing.T) {
	cases := []struct {
		amount string
		ok     bool
	}{
		{"1e400", false},
		{"1000000000000000", false},
		{"999999999999999.9999", true},
		{"0.00001", false},
		{"12.34567", false},
		{"12.3456", true},
		{"1.50000", true},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			in := validInput()
			amount := decimal.RequireFromString(tc.amount)
			in.Amount = &amount

			_, err := Validate(in, time.Now())
			if tc.ok {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if fields := violatedFields(t, err); !fields["amount"] || len(fields) != 1 {
				t.Fatalf("violations = %v, want only amount", fields)
			}
		})
	}
}

func TestValidateTrimsOwner(t *testing.T) {
	in := validInput()
	in.OwnerEmail = strPtr("  a@x.com \t")

	tx, err := Validate(in, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if tx.OwnerEmail != "a@x.com" {
		t.Fatalf("owner = %q", tx.OwnerEmail)
	}

	tx.ID = uuid.New()
	if _, err := ApplyPatch(tx, TransactionInput{OwnerEmail: strPtr(" a@x.com ")}, time.Now()); err != nil {
		t.Fatalf("padded resend of the same owner should be accepted, got %v", err)
	}
}

func TestApplyPatchIgnoresZeroDate(t *testing.T) {
	date := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	in := validInput()
	in.Date = &date
	base, err := Validate(in, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	var zero time.Time
	got, err := ApplyPatch(base, TransactionInput{Date: &zero, Category: strPtr("bonus")}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date = %v, want stored %v", got.Date, date)
	}
}
