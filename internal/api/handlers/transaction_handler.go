package handlers

import (
	"finease/internal/dto"
	"finease/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	ledger *service.LedgerService
	logger *zap.Logger
}

func NewTransactionHandler(ledger *service.LedgerService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		logger: logger,
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income or expense for an owner. Date defaults to now.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	tx, err := h.ledger.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return respondError(c, h.logger, "create transaction", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(tx))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.ledger.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "get transaction", err)
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// ListTransactions godoc
// @Summary List an owner's transactions
// @Description Unknown sort values fall back to date-desc.
// @Tags transactions
// @Produce json
// @Param email query string true "Owner email"
// @Param sort query string false "date-desc, date-asc, amount-desc or amount-asc" default(date-desc)
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	owner := ownerParam(c)
	if owner == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "email query parameter is required",
		})
	}

	txs, err := h.ledger.ListByOwner(c.UserContext(), owner, c.Query("sort"))
	if err != nil {
		return respondError(c, h.logger, "list transactions", err)
	}

	return c.JSON(dto.NewTransactionListResponse(txs))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Only supplied fields change; the merged record is validated again. The owner cannot change.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	tx, err := h.ledger.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return respondError(c, h.logger, "update transaction", err)
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Succeeds whether or not the transaction exists; deletedCount tells which.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	n, err := h.ledger.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "delete transaction", err)
	}

	return c.JSON(dto.DeleteResponse{
		Message:      "Deleted",
		DeletedCount: n,
	})
}
