package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finease/internal/models"
	"finease/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type ResilienceConfig struct {
	// Timeout bounds every storage call. Zero disables it.
	Timeout time.Duration
	// MaxRequests may pass while the breaker is half-open.
	MaxRequests uint32
	// Interval clears the closed-state counters. Zero never clears them.
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		Timeout:             5 * time.Second,
		MaxRequests:         1,
		Interval:            time.Minute,
		OpenTimeout:         30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// ResilientStore guards a Store with a per-call timeout and a circuit breaker.
// Failures are surfaced as models.ErrStorageUnavailable; nothing is retried.
type ResilientStore struct {
	store   Store
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewResilientStore(name string, store Store, cfg ResilienceConfig, collector metrics.Collector, logger *zap.Logger) *ResilientStore {
	rs := &ResilientStore{
		store:   store,
		timeout: cfg.Timeout,
		logger:  logger.Named("resilience"),
	}

	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	rs.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Missing records, rejected rows and abandoned requests say nothing about the backend.
		IsSuccessful: func(err error) bool {
			if _, rejected := models.AsValidationError(err); rejected {
				return true
			}
			return err == nil || errors.Is(err, models.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			rs.logger.Warn("Storage circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			var state metrics.CircuitState
			switch to {
			case gobreaker.StateOpen:
				state = metrics.CircuitOpen
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitHalfOpen
			default:
				state = metrics.CircuitClosed
			}
			collector.RecordCircuitState(name, state)
		},
	})

	return rs
}

func (rs *ResilientStore) Create(ctx context.Context, tx *models.Transaction) error {
	_, err := rs.execute(ctx, "create", func(ctx context.Context) (interface{}, error) {
		return nil, rs.store.Create(ctx, tx)
	})
	return err
}

func (rs *ResilientStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	res, err := rs.execute(ctx, "get", func(ctx context.Context) (interface{}, error) {
		return rs.store.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.Transaction), nil
}

func (rs *ResilientStore) ListByOwner(ctx context.Context, ownerEmail string, order models.SortOrder) ([]*models.Transaction, error) {
	res, err := rs.execute(ctx, "list", func(ctx context.Context) (interface{}, error) {
		return rs.store.ListByOwner(ctx, ownerEmail, order)
	})
	if err != nil {
		return nil, err
	}
	return res.([]*models.Transaction), nil
}

func (rs *ResilientStore) Update(ctx context.Context, tx *models.Transaction) error {
	_, err := rs.execute(ctx, "update", func(ctx context.Context) (interface{}, error) {
		return nil, rs.store.Update(ctx, tx)
	})
	return err
}

func (rs *ResilientStore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := rs.execute(ctx, "delete", func(ctx context.Context) (interface{}, error) {
		return rs.store.Delete(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

func (rs *ResilientStore) SumByType(ctx context.Context, ownerEmail string) (map[models.TransactionType]decimal.Decimal, error) {
	res, err := rs.execute(ctx, "sum", func(ctx context.Context) (interface{}, error) {
		return rs.store.SumByType(ctx, ownerEmail)
	})
	if err != nil {
		return nil, err
	}
	return res.(map[models.TransactionType]decimal.Decimal), nil
}

// Ping bypasses the breaker so health checks see the real backend state.
func (rs *ResilientStore) Ping(ctx context.Context) error {
	ctx, cancel := rs.withTimeout(ctx)
	defer cancel()
	return rs.store.Ping(ctx)
}

func (rs *ResilientStore) execute(ctx context.Context, op string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ctx, cancel := rs.withTimeout(ctx)
	defer cancel()

	res, err := rs.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err == nil {
		return res, nil
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, models.ErrStorageUnavailable):
		rs.logger.Warn("Storage call timed out", zap.String("operation", op), zap.Duration("timeout", rs.timeout))
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
	}
	return nil, err
}

func (rs *ResilientStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if rs.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, rs.timeout)
}
