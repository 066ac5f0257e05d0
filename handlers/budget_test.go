package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompetku-api/models"
	"github.com/dompetku/dompetku-api/services"
)

func planErrorResponse(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h := &BudgetHandler{}
	h.writePlanError(c, err)
	return w
}

func TestWritePlanError_DuplicateScope(t *testing.T) {
	w := planErrorResponse(t, &services.DuplicatePlanError{Scope: "🍜 Makanan"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "🍜 Makanan")
	assert.Contains(t, w.Body.String(), "1 budget plan aktif")
}

func TestWritePlanError_DuplicateAllCategories(t *testing.T) {
	// The null scope must surface under its display name, not an empty string.
	w := planErrorResponse(t, &services.DuplicatePlanError{Scope: services.AllCategoriesScope})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Semua Kategori")
}

func TestWritePlanError_NotFound(t *testing.T) {
	w := planErrorResponse(t, services.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWritePlanError_InvalidInput(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, planErrorResponse(t, services.ErrInvalidAmount).Code)
	assert.Equal(t, http.StatusBadRequest, planErrorResponse(t, services.ErrInvalidThreshold).Code)
}

func bindPlanRequest(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/budgets", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req models.BudgetPlanRequest
	return c.ShouldBindJSON(&req)
}

func TestBudgetPlanRequestBinding(t *testing.T) {
	require.NoError(t, bindPlanRequest(t,
		`{"category_id":"b9e7a4c2-53a1-4f69-9d0e-2f8a1b3c4d5e","amount":"1000000","period_type":"monthly","alert_threshold":"80"}`))

	// Empty category means the all-categories scope and is allowed.
	require.NoError(t, bindPlanRequest(t,
		`{"amount":"1000000","period_type":"monthly","alert_threshold":"80"}`))
}

func TestBudgetPlanRequestBinding_MalformedCategoryID(t *testing.T) {
	// A malformed id must fail validation instead of reaching Postgres.
	err := bindPlanRequest(t,
		`{"category_id":"not-a-uuid","amount":"1000000","period_type":"monthly","alert_threshold":"80"}`)
	assert.Error(t, err)
}
