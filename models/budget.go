package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BudgetPlan struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	CategoryID     *string         `json:"category_id"` // nil means all expense categories
	Amount         decimal.Decimal `json:"amount"`
	PeriodType     string          `json:"period_type"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Category       *Category       `json:"category,omitempty"`
}

// BudgetStatus is the derived read-side view of a plan: how much has been
// spent against it and whether it crossed the alert threshold or the limit.
type BudgetStatus struct {
	CurrentSpending decimal.Decimal `json:"current_spending"`
	Percentage      decimal.Decimal `json:"percentage"` // clamped to [0,100] for display
	Remaining       decimal.Decimal `json:"remaining"`  // negative when over budget
	IsOverBudget    bool            `json:"is_over_budget"`
	IsNearLimit     bool            `json:"is_near_limit"`
}

type BudgetPlanWithStatus struct {
	BudgetPlan
	BudgetStatus
}

type BudgetAlert struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	BudgetPlanID    string          `json:"budget_plan_id"`
	CurrentSpending decimal.Decimal `json:"current_spending"`
	BudgetLimit     decimal.Decimal `json:"budget_limit"`
	AlertMessage    string          `json:"alert_message"`
	IsRead          bool            `json:"is_read"`
	CreatedAt       time.Time       `json:"created_at"`
	Plan            *BudgetPlan     `json:"budget_plan,omitempty"`
}

type BudgetPlanRequest struct {
	CategoryID     string `json:"category_id" binding:"omitempty,uuid"` // empty means all categories
	Amount         string `json:"amount" binding:"required"`
	PeriodType     string `json:"period_type" binding:"required,oneof=weekly monthly"`
	AlertThreshold string `json:"alert_threshold" binding:"required"`
}
