package repository

import (
	"context"

	"finease/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store persists transactions. Implementations report a missing record with
// models.ErrNotFound and backend failures wrapped in models.ErrStorageUnavailable.
type Store interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByOwner(ctx context.Context, ownerEmail string, order models.SortOrder) ([]*models.Transaction, error)
	// Update replaces the mutable fields of an existing record. The owner is never rewritten.
	Update(ctx context.Context, tx *models.Transaction) error
	// Delete removes the record if present and reports how many rows went away.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	// SumByType groups the owner's transactions by type and sums their amounts.
	SumByType(ctx context.Context, ownerEmail string) (map[models.TransactionType]decimal.Decimal, error)
	Ping(ctx context.Context) error
}
