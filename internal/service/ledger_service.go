package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finease/internal/cache"
	"finease/internal/models"
	"finease/internal/repository"
	"finease/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService owns create/read/update/delete of transactions.
type LedgerService struct {
	store   repository.Store
	cache   cache.SummaryCache
	metrics metrics.Collector
	logger  *zap.Logger
	now     func() time.Time
}

func NewLedgerService(
	store repository.Store,
	summaryCache cache.SummaryCache,
	collector metrics.Collector,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		store:   store,
		cache:   summaryCache,
		metrics: collector,
		logger:  logger,
		now:     storageNow,
	}
}

// Create validates the payload and stores a new transaction.
func (s *LedgerService) Create(ctx context.Context, in models.TransactionInput) (tx *models.Transaction, err error) {
	defer s.observe("create", time.Now(), &err)

	now := s.now()
	tx, err = models.Validate(in, now)
	if err != nil {
		return nil, err
	}
	tx.ID = uuid.New()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if err = s.store.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.invalidateSummary(ctx, tx.OwnerEmail)

	s.logger.Info("Transaction created",
		zap.String("id", tx.ID.String()),
		zap.String("type", string(tx.Type)),
		zap.String("owner_email", tx.OwnerEmail),
	)

	return tx, nil
}

// GetByID returns one transaction.
func (s *LedgerService) GetByID(ctx context.Context, rawID string) (tx *models.Transaction, err error) {
	defer s.observe("get", time.Now(), &err)

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	tx, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return tx, nil
}

// ListByOwner returns the owner's transactions in the order selected by
// sortToken. Unknown tokens use the default order.
func (s *LedgerService) ListByOwner(ctx context.Context, ownerEmail, sortToken string) (txs []*models.Transaction, err error) {
	defer s.observe("list", time.Now(), &err)

	order := models.ParseSortOrder(sortToken)
	txs, err = s.store.ListByOwner(ctx, models.NormalizeOwner(ownerEmail), order)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	return txs, nil
}

// Update merges patch into the stored transaction and persists the result.
func (s *LedgerService) Update(ctx context.Context, rawID string, patch models.TransactionInput) (tx *models.Transaction, err error) {
	defer s.observe("update", time.Now(), &err)

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", id, err)
	}

	tx, err = models.ApplyPatch(current, patch, s.now())
	if err != nil {
		return nil, err
	}

	if err = s.store.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}
	s.invalidateSummary(ctx, tx.OwnerEmail)

	s.logger.Info("Transaction updated", zap.String("id", id.String()))

	return tx, nil
}

// Delete removes a transaction and reports how many records went away.
// Absent and malformed ids are not errors; they delete nothing.
func (s *LedgerService) Delete(ctx context.Context, rawID string) (deleted int64, err error) {
	defer s.observe("delete", time.Now(), &err)

	id, perr := parseID(rawID)
	if perr != nil {
		return 0, nil
	}

	// The owner is needed to drop its cached summary.
	var owner string
	if current, gerr := s.store.GetByID(ctx, id); gerr == nil {
		owner = current.OwnerEmail
	} else if !errors.Is(gerr, models.ErrNotFound) {
		return 0, fmt.Errorf("failed to load transaction %s: %w", id, gerr)
	}

	deleted, err = s.store.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	if deleted > 0 && owner != "" {
		s.invalidateSummary(ctx, owner)
	}

	s.logger.Info("Transaction delete processed",
		zap.String("id", id.String()),
		zap.Int64("deleted", deleted),
	)

	return deleted, nil
}

// Ping reports whether the store is reachable.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *LedgerService) invalidateSummary(ctx context.Context, ownerEmail string) {
	if err := s.cache.Invalidate(ctx, ownerEmail); err != nil {
		s.logger.Warn("Failed to invalidate summary cache",
			zap.String("owner_email", ownerEmail),
			zap.Error(err),
		)
	}
}

func (s *LedgerService) observe(op string, start time.Time, err *error) {
	s.metrics.RecordOperation(op, Outcome(*err), time.Since(start))
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, raw)
	}
	return id, nil
}

// storageNow matches the microsecond precision of timestamptz so that a
// stored record reads back identical.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
