package dto

import "finease/internal/models"

type SummaryResponse struct {
	Income   float64 `json:"income" example:"5000"`
	Expenses float64 `json:"expenses" example:"1200"`
	Balance  float64 `json:"balance" example:"3800"`
}

func NewSummaryResponse(s models.Summary) SummaryResponse {
	return SummaryResponse{
		Income:   s.Income.InexactFloat64(),
		Expenses: s.Expenses.InexactFloat64(),
		Balance:  s.Balance.InexactFloat64(),
	}
}

type ErrorResponse struct {
	Error      string             `json:"error"`
	Violations []models.Violation `json:"violations,omitempty"`
}
