package cache

import (
	"context"

	"finease/internal/models"
)

// SummaryCache holds computed owner summaries. Implementations may drop
// entries at any time; callers treat every error as a miss.
type SummaryCache interface {
	Get(ctx context.Context, ownerEmail string) (models.Summary, bool, error)
	Set(ctx context.Context, ownerEmail string, summary models.Summary) error
	Invalidate(ctx context.Context, ownerEmail string) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (models.Summary, bool, error) {
	return models.Summary{}, false, nil
}

func (Noop) Set(context.Context, string, models.Summary) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }
