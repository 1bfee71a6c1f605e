package handlers

import (
	"finease/internal/dto"
	"finease/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SummaryHandler struct {
	summaries *service.SummaryService
	logger    *zap.Logger
}

func NewSummaryHandler(summaries *service.SummaryService, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaries: summaries,
		logger:    logger,
	}
}

// GetSummary godoc
// @Summary Balance summary
// @Description Income total, expense total and balance over all of the owner's transactions.
// @Tags summary
// @Produce json
// @Param email query string true "Owner email"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(c *fiber.Ctx) error {
	owner := ownerParam(c)
	if owner == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "email query parameter is required",
		})
	}

	summary, err := h.summaries.Summarize(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.logger, "summarize", err)
	}

	return c.JSON(dto.NewSummaryResponse(summary))
}
