package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku-api/models"
	"github.com/dompetku/dompetku-api/utils"
)

// Bucket for transactions whose category no longer resolves.
const (
	FallbackCategoryName  = "Lainnya"
	FallbackCategoryIcon  = "📌"
	FallbackCategoryColor = "#6B7280"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

var oneHundred = decimal.NewFromInt(100)

// ComputeBudgetStatus derives spending, percentage and threshold flags for a
// budget plan. The transactions must already be filtered by the caller to
// expenses inside the plan's date range and category scope.
//
// The unclamped percentage drives the over/near decisions; only the returned
// Percentage is capped at 100 for display. Over-budget takes precedence over
// near-limit, so the two flags are never both set. Remaining keeps its sign:
// negative means the plan is exceeded by that much.
func ComputeBudgetStatus(plan models.BudgetPlan, transactions []models.Transaction) models.BudgetStatus {
	spending := decimal.Zero
	for _, t := range transactions {
		spending = spending.Add(t.Amount)
	}

	status := models.BudgetStatus{
		CurrentSpending: spending,
		Remaining:       plan.Amount.Sub(spending),
	}

	// A zero-amount plan makes the percentage undefined: zero spending
	// counts as 0%, anything positive is immediately over budget with the
	// display percentage capped at 100.
	if plan.Amount.IsZero() {
		if spending.IsPositive() {
			status.IsOverBudget = true
			status.Percentage = oneHundred
		} else {
			status.Percentage = decimal.Zero
			status.IsNearLimit = decimal.Zero.GreaterThanOrEqual(plan.AlertThreshold)
		}
		return status
	}

	percentage := spending.Div(plan.Amount).Mul(oneHundred)

	status.IsOverBudget = spending.GreaterThan(plan.Amount)
	status.IsNearLimit = percentage.GreaterThanOrEqual(plan.AlertThreshold) && !status.IsOverBudget

	if percentage.GreaterThan(oneHundred) {
		percentage = oneHundred
	}
	status.Percentage = percentage

	return status
}

// RollupByMonth partitions transactions into the 12 calendar months and sums
// income and expense per month. The result is always exactly 12 entries in
// calendar order; months without transactions are zero-filled. Transactions
// are bucketed by the month of their date regardless of year, so the caller
// must pre-filter to the target year.
func RollupByMonth(transactions []models.Transaction) []models.MonthlyData {
	rollup := make([]models.MonthlyData, 12)
	for i := range rollup {
		rollup[i] = models.MonthlyData{
			Month:   monthLabels[i],
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Balance: decimal.Zero,
		}
	}

	for _, t := range transactions {
		m := int(t.Date.Month()) - 1
		switch t.Type {
		case models.TypeIncome:
			rollup[m].Income = rollup[m].Income.Add(t.Amount)
		case models.TypeExpense:
			rollup[m].Expense = rollup[m].Expense.Add(t.Amount)
		}
	}

	for i := range rollup {
		rollup[i].Balance = rollup[i].Income.Sub(rollup[i].Expense)
	}

	return rollup
}

// RollupByCategory groups transactions into per-category totals. Buckets are
// keyed by the category display name, with icon, color and type taken from
// the first transaction seen for the bucket; transactions without a resolved
// category land in the "Lainnya" bucket rather than being dropped. The
// result preserves first-seen order.
func RollupByCategory(transactions []models.Transaction) []models.CategoryBreakdown {
	index := make(map[string]int)
	var breakdown []models.CategoryBreakdown

	for _, t := range transactions {
		name := FallbackCategoryName
		icon := FallbackCategoryIcon
		color := FallbackCategoryColor
		if t.Category != nil {
			name = t.Category.Name
			icon = t.Category.Icon
			color = t.Category.Color
		}

		i, ok := index[name]
		if !ok {
			i = len(breakdown)
			index[name] = i
			breakdown = append(breakdown, models.CategoryBreakdown{
				Name:   name,
				Amount: decimal.Zero,
				Icon:   icon,
				Color:  color,
				Type:   t.Type,
			})
		}

		breakdown[i].Amount = breakdown[i].Amount.Add(t.Amount)
		breakdown[i].Count++
	}

	return breakdown
}

// TopCategories filters a breakdown by transaction type and sorts it by
// amount descending, the order the report views present it in.
func TopCategories(breakdown []models.CategoryBreakdown, txType models.TransactionType) []models.CategoryBreakdown {
	var filtered []models.CategoryBreakdown
	for _, b := range breakdown {
		if b.Type == txType {
			filtered = append(filtered, b)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Amount.GreaterThan(filtered[j].Amount)
	})

	return filtered
}

// Summarize totals a transaction set into income, expense and balance.
func Summarize(transactions []models.Transaction) models.FinancialSummary {
	summary := models.FinancialSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Balance:      decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case models.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case models.TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
		summary.TransactionCount++
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

// BuildAlertMessage renders the persisted alert text for a plan that crossed
// its threshold or limit. scopeName is the category name, or "Semua
// Kategori" for an all-categories plan.
func BuildAlertMessage(scopeName string, status models.BudgetStatus, limit decimal.Decimal) string {
	if status.IsOverBudget {
		return fmt.Sprintf(`Pengeluaran untuk "%s" melebihi budget! %s dari %s`,
			scopeName, utils.FormatRupiah(status.CurrentSpending), utils.FormatRupiah(limit))
	}
	return fmt.Sprintf(`Pengeluaran untuk "%s" sudah mencapai %s%% dari budget %s`,
		scopeName, status.Percentage.Round(0).String(), utils.FormatRupiah(limit))
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
