package handlers

import (
	"errors"

	"finease/internal/dto"
	"finease/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps ledger errors onto HTTP statuses.
func respondError(c *fiber.Ctx, logger *zap.Logger, op string, err error) error {
	if verr, ok := models.AsValidationError(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:      "Validation failed",
			Violations: verr.Violations,
		})
	}

	switch {
	case errors.Is(err, models.ErrInvalidIdentifier):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid transaction ID"})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Transaction not found"})
	case errors.Is(err, models.ErrStorageUnavailable):
		logger.Error("Storage unavailable", zap.String("operation", op), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "Storage unavailable"})
	}

	logger.Error("Request failed", zap.String("operation", op), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: "Invalid request body: " + err.Error(),
	})
}

// ownerParam reads the owner from ?email=, falling back to the legacy ?userEmail=.
func ownerParam(c *fiber.Ctx) string {
	owner := models.NormalizeOwner(c.Query("email"))
	if owner == "" {
		owner = models.NormalizeOwner(c.Query("userEmail"))
	}
	return owner
}
