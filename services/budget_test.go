package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompetku-api/models"
)

func TestParsePlanRequest(t *testing.T) {
	amount, threshold, err := parsePlanRequest(models.BudgetPlanRequest{
		Amount:         "1000000",
		AlertThreshold: "80",
	})
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("1000000")))
	assert.True(t, threshold.Equal(decimal.RequireFromString("80")))
}

func TestParsePlanRequest_Invalid(t *testing.T) {
	cases := []struct {
		name string
		req  models.BudgetPlanRequest
		want error
	}{
		{"zero amount", models.BudgetPlanRequest{Amount: "0", AlertThreshold: "80"}, ErrInvalidAmount},
		{"negative amount", models.BudgetPlanRequest{Amount: "-100", AlertThreshold: "80"}, ErrInvalidAmount},
		{"garbage amount", models.BudgetPlanRequest{Amount: "abc", AlertThreshold: "80"}, ErrInvalidAmount},
		{"threshold over 100", models.BudgetPlanRequest{Amount: "100", AlertThreshold: "101"}, ErrInvalidThreshold},
		{"negative threshold", models.BudgetPlanRequest{Amount: "100", AlertThreshold: "-1"}, ErrInvalidThreshold},
		{"garbage threshold", models.BudgetPlanRequest{Amount: "100", AlertThreshold: "x"}, ErrInvalidThreshold},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parsePlanRequest(tc.req)
			assert.True(t, errors.Is(err, tc.want))
		})
	}
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC)

	start, end := periodRange("weekly", now)
	assert.Equal(t, now, start)
	assert.Equal(t, now.AddDate(0, 0, 7), end)

	start, end = periodRange("monthly", now)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), end)
}

func TestUniqueScopeQuery_NullScope(t *testing.T) {
	// An all-categories plan must collide with other all-categories plans
	// via IS NULL; equality against NULL would never match.
	query, args := uniqueScopeQuery("user-1", nil, "exclude-1")

	assert.Contains(t, query, "category_id IS NULL")
	assert.NotContains(t, query, "category_id = $3")
	assert.Equal(t, []interface{}{"user-1", "exclude-1"}, args)
}

func TestUniqueScopeQuery_CategoryScope(t *testing.T) {
	categoryID := "cat-1"
	query, args := uniqueScopeQuery("user-1", &categoryID, "exclude-1")

	assert.Contains(t, query, "category_id = $3")
	assert.NotContains(t, query, "IS NULL")
	assert.Equal(t, []interface{}{"user-1", "exclude-1", "cat-1"}, args)
}

func TestDuplicatePlanError(t *testing.T) {
	var target *DuplicatePlanError
	err := error(&DuplicatePlanError{Scope: "Makanan"})
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "Makanan", target.Scope)
	assert.Contains(t, err.Error(), "Makanan")
}
