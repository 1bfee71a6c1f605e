package dto

import (
	"time"

	"finease/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of create and update calls. Absent fields
// stay nil; on update they leave the stored value untouched.
type TransactionRequest struct {
	Type        *string          `json:"type" example:"income"`
	Category    *string          `json:"category" example:"salary"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"5000"`
	Description *string          `json:"description" example:"July pay"`
	Date        *Date            `json:"date" swaggertype:"string" example:"2025-07-31"`
	OwnerEmail  *string          `json:"ownerEmail" example:"a@x.com"`
	// Deprecated: older clients send the owner as userEmail.
	UserEmail *string `json:"userEmail,omitempty" swaggerignore:"true"`
}

func (r *TransactionRequest) ToInput() models.TransactionInput {
	in := models.TransactionInput{
		Type:        r.Type,
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		OwnerEmail:  r.OwnerEmail,
	}
	if in.OwnerEmail == nil {
		in.OwnerEmail = r.UserEmail
	}
	// "date": "" reads as not supplied.
	if r.Date != nil && !r.Date.IsZero() {
		t := r.Date.Time
		in.Date = &t
	}
	return in
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	OwnerEmail  string  `json:"ownerEmail"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount.InexactFloat64(),
		Description: tx.Description,
		Date:        tx.Date.Format(time.RFC3339Nano),
		OwnerEmail:  tx.OwnerEmail,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   tx.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func NewTransactionListResponse(txs []*models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = NewTransactionResponse(tx)
	}
	return out
}

type DeleteResponse struct {
	Message      string `json:"message" example:"Deleted"`
	DeletedCount int64  `json:"deletedCount" example:"1"`
}
