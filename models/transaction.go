package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CategoryID  string          `json:"category_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Category    *Category       `json:"category,omitempty"`
}

type TransactionRequest struct {
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=200"`
	Date        string `json:"date" binding:"required"`
}

// TransactionFilter carries the query-string filter state of the
// transactions view: search, type, category, dateFrom, dateTo, page.
type TransactionFilter struct {
	Search     string
	Type       string
	CategoryID string
	DateFrom   string
	DateTo     string
	Page       int
	Limit      int
}

type TransactionPage struct {
	Transactions []Transaction   `json:"transactions"`
	Count        int             `json:"count"`
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}
