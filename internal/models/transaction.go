package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tells whether money came in or went out.
type TransactionType string

// Ledger entry kinds.
const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two ledger entry kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single ledger record. Amount is always positive;
// Type carries the sign.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	Type        TransactionType `db:"type"`
	Category    string          `db:"category"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	Date        time.Time       `db:"date"`
	OwnerEmail  string          `db:"owner_email"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Clone returns a copy that shares no state with tx.
func (tx *Transaction) Clone() *Transaction {
	c := *tx
	return &c
}

// Summary is the balance of one owner.
type Summary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// NewSummary builds a Summary from per-type sums. Missing types count as zero.
func NewSummary(sums map[TransactionType]decimal.Decimal) Summary {
	income := sums[TransactionTypeIncome]
	expenses := sums[TransactionTypeExpense]
	return Summary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}
