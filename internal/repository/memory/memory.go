// Package memory is an in-process transaction store. It backs tests and the
// STORAGE_DRIVER=memory mode; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"finease/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is a mutex-guarded map of transactions that hands out copies.
type Store struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Transaction
}

func New() *Store {
	return &Store{items: make(map[uuid.UUID]*models.Transaction)}
}

func (s *Store) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[tx.ID]; ok {
		return fmt.Errorf("memory: duplicate id %s", tx.ID)
	}
	s.items[tx.ID] = tx.Clone()
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return tx.Clone(), nil
}

func (s *Store) ListByOwner(_ context.Context, ownerEmail string, order models.SortOrder) ([]*models.Transaction, error) {
	s.mu.RLock()
	out := []*models.Transaction{}
	for _, tx := range s.items {
		if tx.OwnerEmail == ownerEmail {
			out = append(out, tx.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return order.Less(out[i], out[j]) })
	return out, nil
}

// Update keeps the stored owner and creation time, like the SQL store.
func (s *Store) Update(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[tx.ID]
	if !ok {
		return models.ErrNotFound
	}
	next := tx.Clone()
	next.OwnerEmail = cur.OwnerEmail
	next.CreatedAt = cur.CreatedAt
	s.items[tx.ID] = next
	return nil
}

func (s *Store) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	return 1, nil
}

func (s *Store) SumByType(_ context.Context, ownerEmail string) (map[models.TransactionType]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := make(map[models.TransactionType]decimal.Decimal, 2)
	for _, tx := range s.items {
		if tx.OwnerEmail == ownerEmail {
			sums[tx.Type] = sums[tx.Type].Add(tx.Amount)
		}
	}
	return sums, nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len returns the number of stored transactions across all owners.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
