package models

import "github.com/shopspring/decimal"

// MonthlyData is one entry of the fixed 12-month report series.
type MonthlyData struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryBreakdown is a per-category total across a report period.
type CategoryBreakdown struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
	Icon   string          `json:"icon"`
	Color  string          `json:"color"`
	Type   TransactionType `json:"type"`
}

type FinancialSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

type YearlyReport struct {
	Year              int                 `json:"year"`
	Summary           FinancialSummary    `json:"summary"`
	MonthlyData       []MonthlyData       `json:"monthly_data"`
	ExpenseCategories []CategoryBreakdown `json:"expense_categories"`
	IncomeCategories  []CategoryBreakdown `json:"income_categories"`
}

type DashboardResponse struct {
	Summary            FinancialSummary `json:"summary"`
	RecentTransactions []Transaction    `json:"recent_transactions"`
	Alerts             []BudgetAlert    `json:"alerts"`
}
