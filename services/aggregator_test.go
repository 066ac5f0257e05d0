package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompetku-api/models"
)

func expense(amount string, date time.Time) models.Transaction {
	return models.Transaction{
		Type:   models.TypeExpense,
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	}
}

func income(amount string, date time.Time) models.Transaction {
	return models.Transaction{
		Type:   models.TypeIncome,
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	}
}

func plan(amount, threshold string) models.BudgetPlan {
	return models.BudgetPlan{
		Amount:         decimal.RequireFromString(amount),
		AlertThreshold: decimal.RequireFromString(threshold),
	}
}

func TestComputeBudgetStatus_NearLimit(t *testing.T) {
	// 850k spent against a 1M plan with an 80% threshold sits at 85%.
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	status := ComputeBudgetStatus(plan("1000000", "80"), []models.Transaction{
		expense("500000", day),
		expense("350000", day),
	})

	assert.True(t, status.Percentage.Equal(decimal.RequireFromString("85")), "got %s", status.Percentage)
	assert.True(t, status.IsNearLimit)
	assert.False(t, status.IsOverBudget)
	assert.True(t, status.Remaining.Equal(decimal.RequireFromString("150000")))
}

func TestComputeBudgetStatus_OverBudget(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	status := ComputeBudgetStatus(plan("1000000", "80"), []models.Transaction{
		expense("1200000", day),
	})

	assert.True(t, status.IsOverBudget)
	assert.False(t, status.IsNearLimit, "over and near must be mutually exclusive")
	assert.True(t, status.Percentage.Equal(decimal.RequireFromString("100")), "display percentage is capped")
	assert.True(t, status.Remaining.Equal(decimal.RequireFromString("-200000")), "remaining keeps its sign")
}

func TestComputeBudgetStatus_ExactlyAtLimit(t *testing.T) {
	// Spending equal to the limit is not over budget, only near it.
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	status := ComputeBudgetStatus(plan("1000000", "80"), []models.Transaction{
		expense("1000000", day),
	})

	assert.False(t, status.IsOverBudget)
	assert.True(t, status.IsNearLimit)
	assert.True(t, status.Percentage.Equal(decimal.RequireFromString("100")))
	assert.True(t, status.Remaining.IsZero())
}

func TestComputeBudgetStatus_ExactlyAtThreshold(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	status := ComputeBudgetStatus(plan("1000000", "80"), []models.Transaction{
		expense("800000", day),
	})

	assert.True(t, status.IsNearLimit, "threshold comparison is inclusive")
	assert.False(t, status.IsOverBudget)
}

func TestComputeBudgetStatus_BelowThreshold(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	status := ComputeBudgetStatus(plan("1000000", "80"), []models.Transaction{
		expense("799999.99", day),
	})

	assert.False(t, status.IsNearLimit)
	assert.False(t, status.IsOverBudget)
}

func TestComputeBudgetStatus_NoTransactions(t *testing.T) {
	status := ComputeBudgetStatus(plan("1000000", "80"), nil)

	assert.True(t, status.CurrentSpending.IsZero())
	assert.True(t, status.Percentage.IsZero())
	assert.True(t, status.Remaining.Equal(decimal.RequireFromString("1000000")))
	assert.False(t, status.IsOverBudget)
	assert.False(t, status.IsNearLimit)
}

func TestComputeBudgetStatus_ZeroAmountPlan(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	empty := ComputeBudgetStatus(plan("0", "80"), nil)
	assert.True(t, empty.Percentage.IsZero())
	assert.False(t, empty.IsOverBudget)

	spent := ComputeBudgetStatus(plan("0", "80"), []models.Transaction{expense("1", day)})
	assert.True(t, spent.IsOverBudget)
	assert.False(t, spent.IsNearLimit)
	assert.True(t, spent.Percentage.Equal(decimal.RequireFromString("100")))
	assert.True(t, spent.Remaining.Equal(decimal.RequireFromString("-1")))
}

func TestComputeBudgetStatus_DecimalExactness(t *testing.T) {
	// Fractional amounts must sum exactly, no float drift.
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	status := ComputeBudgetStatus(plan("1", "80"), []models.Transaction{
		expense("0.1", day),
		expense("0.2", day),
	})

	assert.True(t, status.CurrentSpending.Equal(decimal.RequireFromString("0.3")), "got %s", status.CurrentSpending)
	assert.True(t, status.Percentage.Equal(decimal.RequireFromString("30")))
}

func TestRollupByMonth(t *testing.T) {
	transactions := []models.Transaction{
		income("5000000", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)),
		expense("1500000", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)),
		expense("200000", time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}

	rollup := RollupByMonth(transactions)
	require.Len(t, rollup, 12, "every month is present even without transactions")

	labels := make([]string, 12)
	for i, m := range rollup {
		labels[i] = m.Month
	}
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}, labels)

	march := rollup[2]
	assert.True(t, march.Income.Equal(decimal.RequireFromString("5000000")))
	assert.True(t, march.Expense.Equal(decimal.RequireFromString("1500000")))
	assert.True(t, march.Balance.Equal(decimal.RequireFromString("3500000")))

	december := rollup[11]
	assert.True(t, december.Expense.Equal(decimal.RequireFromString("200000")))
	assert.True(t, december.Balance.Equal(decimal.RequireFromString("-200000")))

	january := rollup[0]
	assert.True(t, january.Income.IsZero())
	assert.True(t, january.Expense.IsZero())
	assert.True(t, january.Balance.IsZero())
}

func TestRollupByMonth_Empty(t *testing.T) {
	rollup := RollupByMonth(nil)
	require.Len(t, rollup, 12)
	for _, m := range rollup {
		assert.True(t, m.Income.IsZero())
		assert.True(t, m.Expense.IsZero())
	}
}

func TestRollupByCategory(t *testing.T) {
	food := &models.Category{ID: "c1", Name: "Makanan", Icon: "🍜", Color: "#F59E0B", Type: models.TypeExpense}
	salary := &models.Category{ID: "c2", Name: "Gaji", Icon: "💰", Color: "#10B981", Type: models.TypeIncome}
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("50000"), Date: day, Category: food},
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("75000"), Date: day, Category: food},
		{Type: models.TypeIncome, Amount: decimal.RequireFromString("5000000"), Date: day, Category: salary},
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("30000"), Date: day}, // deleted category
	}

	breakdown := RollupByCategory(transactions)
	require.Len(t, breakdown, 3)

	assert.Equal(t, "Makanan", breakdown[0].Name)
	assert.Equal(t, "🍜", breakdown[0].Icon)
	assert.True(t, breakdown[0].Amount.Equal(decimal.RequireFromString("125000")))
	assert.Equal(t, 2, breakdown[0].Count)

	assert.Equal(t, "Gaji", breakdown[1].Name)

	fallback := breakdown[2]
	assert.Equal(t, FallbackCategoryName, fallback.Name)
	assert.Equal(t, FallbackCategoryIcon, fallback.Icon)
	assert.Equal(t, FallbackCategoryColor, fallback.Color)
	assert.True(t, fallback.Amount.Equal(decimal.RequireFromString("30000")))

	// No transaction may be dropped.
	total := 0
	for _, b := range breakdown {
		total += b.Count
	}
	assert.Equal(t, len(transactions), total)
}

func TestTopCategories(t *testing.T) {
	breakdown := []models.CategoryBreakdown{
		{Name: "Makanan", Amount: decimal.RequireFromString("125000"), Type: models.TypeExpense},
		{Name: "Gaji", Amount: decimal.RequireFromString("5000000"), Type: models.TypeIncome},
		{Name: "Transportasi", Amount: decimal.RequireFromString("300000"), Type: models.TypeExpense},
	}

	expenses := TopCategories(breakdown, models.TypeExpense)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Transportasi", expenses[0].Name, "sorted by amount descending")
	assert.Equal(t, "Makanan", expenses[1].Name)

	incomes := TopCategories(breakdown, models.TypeIncome)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Gaji", incomes[0].Name)
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	summary := Summarize([]models.Transaction{
		income("5000000", day),
		expense("1500000", day),
		expense("250000", day),
	})

	assert.True(t, summary.TotalIncome.Equal(decimal.RequireFromString("5000000")))
	assert.True(t, summary.TotalExpense.Equal(decimal.RequireFromString("1750000")))
	assert.True(t, summary.Balance.Equal(decimal.RequireFromString("3250000")))
	assert.Equal(t, 3, summary.TransactionCount)
}

func TestBuildAlertMessage(t *testing.T) {
	limit := decimal.RequireFromString("1000000")

	over := models.BudgetStatus{
		CurrentSpending: decimal.RequireFromString("1200000"),
		IsOverBudget:    true,
	}
	assert.Equal(t,
		`Pengeluaran untuk "Makanan" melebihi budget! Rp 1.200.000 dari Rp 1.000.000`,
		BuildAlertMessage("Makanan", over, limit))

	near := models.BudgetStatus{
		CurrentSpending: decimal.RequireFromString("850000"),
		Percentage:      decimal.RequireFromString("85"),
		IsNearLimit:     true,
	}
	assert.Equal(t,
		`Pengeluaran untuk "Semua Kategori" sudah mencapai 85% dari budget Rp 1.000.000`,
		BuildAlertMessage("Semua Kategori", near, limit))
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(time.Date(2026, time.February, 14, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), last)

	first, last = MonthRange(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), last)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), first)
}
