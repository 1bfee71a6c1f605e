package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountScale is the number of decimal places the amount column keeps.
	MaxAmountScale = 4
	// maxAmountDigits bounds the integer part of an amount: numeric(19,4) leaves 15.
	maxAmountDigits = 15
)

var maxAmount = decimal.New(1, maxAmountDigits)

// TransactionInput is a client-supplied payload. Nil fields were not supplied.
// The same type serves as a create payload and as an update patch.
type TransactionInput struct {
	Type        *string
	Category    *string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
	OwnerEmail  *string
}

// InputFromTransaction returns an input with every field of tx supplied.
func InputFromTransaction(tx *Transaction) TransactionInput {
	typ := string(tx.Type)
	category := tx.Category
	amount := tx.Amount
	description := tx.Description
	date := tx.Date
	owner := tx.OwnerEmail
	return TransactionInput{
		Type:        &typ,
		Category:    &category,
		Amount:      &amount,
		Description: &description,
		Date:        &date,
		OwnerEmail:  &owner,
	}
}

// Merge overlays the supplied fields of patch on in.
func (in TransactionInput) Merge(patch TransactionInput) TransactionInput {
	out := in
	if patch.Type != nil {
		out.Type = patch.Type
	}
	if patch.Category != nil {
		out.Category = patch.Category
	}
	if patch.Amount != nil {
		out.Amount = patch.Amount
	}
	if patch.Description != nil {
		out.Description = patch.Description
	}
	if patch.Date != nil && !patch.Date.IsZero() {
		out.Date = patch.Date
	}
	if patch.OwnerEmail != nil {
		out.OwnerEmail = patch.OwnerEmail
	}
	return out
}

// Validate checks in against the transaction invariants. On success it returns
// a normalized transaction with Date defaulted to now; ID and timestamps are
// left for the caller. On failure the error is a *ValidationError.
func Validate(in TransactionInput, now time.Time) (*Transaction, error) {
	verr := &ValidationError{}

	var typ TransactionType
	if in.Type == nil || *in.Type == "" {
		verr.add("type", "is required")
	} else if typ = TransactionType(*in.Type); !typ.Valid() {
		verr.add("type", "must be one of income, expense")
	}

	if blank(in.Category) {
		verr.add("category", "is required")
	}

	if in.Amount == nil {
		verr.add("amount", "is required")
	} else if !in.Amount.IsPositive() {
		verr.add("amount", "must be a positive number")
	} else if in.Amount.GreaterThanOrEqual(maxAmount) {
		verr.add("amount", fmt.Sprintf("must be less than %s", maxAmount))
	} else if !in.Amount.Equal(in.Amount.Truncate(MaxAmountScale)) {
		verr.add("amount", fmt.Sprintf("must have at most %d decimal places", MaxAmountScale))
	}

	if blank(in.Description) {
		verr.add("description", "is required")
	}

	if blank(in.OwnerEmail) {
		verr.add("ownerEmail", "is required")
	}

	if len(verr.Violations) > 0 {
		return nil, verr
	}

	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	return &Transaction{
		Type:        typ,
		Category:    sanitizeText(*in.Category),
		Amount:      *in.Amount,
		Description: sanitizeText(*in.Description),
		Date:        date.UTC(),
		OwnerEmail:  NormalizeOwner(*in.OwnerEmail),
	}, nil
}

// ApplyPatch merges patch over base, validates the merged record as a whole
// and returns the new state. Identity and creation time are carried over from
// base. The owner of a transaction cannot be changed.
func ApplyPatch(base *Transaction, patch TransactionInput, now time.Time) (*Transaction, error) {
	merged := InputFromTransaction(base).Merge(patch)

	tx, err := Validate(merged, now)
	if !blank(patch.OwnerEmail) && NormalizeOwner(*patch.OwnerEmail) != base.OwnerEmail {
		verr, ok := AsValidationError(err)
		if !ok {
			verr = &ValidationError{}
		}
		verr.add("ownerEmail", "cannot be reassigned")
		return nil, verr
	}
	if err != nil {
		return nil, err
	}

	tx.ID = base.ID
	tx.CreatedAt = base.CreatedAt
	tx.UpdatedAt = now
	return tx, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// NormalizeOwner is applied to owners on every write and every lookup, so
// " a@x.com " and "a@x.com" name the same owner.
func NormalizeOwner(owner string) string {
	return strings.TrimSpace(sanitizeText(owner))
}

// sanitizeText drops invalid UTF-8 sequences, which PostgreSQL rejects in text columns.
func sanitizeText(s string) string {
	return strings.ToValidUTF8(s, "")
}
