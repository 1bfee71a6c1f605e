package service

import (
	"context"
	"errors"

	"finease/internal/models"
)

// Outcome classifies an operation result for metrics labels.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if _, ok := models.AsValidationError(err); ok {
		return "validation"
	}
	switch {
	case errors.Is(err, models.ErrInvalidIdentifier):
		return "invalid_id"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrStorageUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
