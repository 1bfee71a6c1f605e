package service

import (
	"context"
	"fmt"
	"time"

	"finease/internal/cache"
	"finease/internal/models"
	"finease/internal/repository"
	"finease/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SummaryService computes owner balances from the store's grouped sums.
type SummaryService struct {
	store   repository.Store
	cache   cache.SummaryCache
	group   singleflight.Group
	metrics metrics.Collector
	logger  *zap.Logger
}

func NewSummaryService(
	store repository.Store,
	summaryCache cache.SummaryCache,
	collector metrics.Collector,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		store:   store,
		cache:   summaryCache,
		metrics: collector,
		logger:  logger,
	}
}

// Summarize returns income, expenses and balance for ownerEmail. Concurrent
// calls for the same owner share one storage round trip.
func (s *SummaryService) Summarize(ctx context.Context, ownerEmail string) (summary models.Summary, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation("summarize", Outcome(err), time.Since(start))
	}()

	ownerEmail = models.NormalizeOwner(ownerEmail)

	if cached, ok, cerr := s.cache.Get(ctx, ownerEmail); cerr != nil {
		s.logger.Warn("Summary cache read failed", zap.String("owner_email", ownerEmail), zap.Error(cerr))
	} else if ok {
		s.metrics.RecordSummaryCache(true)
		return cached, nil
	} else {
		s.metrics.RecordSummaryCache(false)
	}

	// The shared call must outlive whichever caller started it; each caller
	// still stops waiting when its own context ends.
	sharedCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(ownerEmail, func() (interface{}, error) {
		sums, err := s.store.SumByType(sharedCtx, ownerEmail)
		if err != nil {
			return nil, err
		}
		summary := models.NewSummary(sums)
		if err := s.cache.Set(sharedCtx, ownerEmail, summary); err != nil {
			s.logger.Warn("Summary cache write failed", zap.String("owner_email", ownerEmail), zap.Error(err))
		}
		return summary, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return models.Summary{}, fmt.Errorf("failed to summarize transactions: %w", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return models.Summary{}, fmt.Errorf("failed to summarize transactions: %w", res.Err)
	}

	summary = res.Val.(models.Summary)
	s.logger.Debug("Summary computed",
		zap.String("owner_email", ownerEmail),
		zap.String("balance", summary.Balance.String()),
		zap.Bool("shared", res.Shared),
	)

	return summary, nil
}
