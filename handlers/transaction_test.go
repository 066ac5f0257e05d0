package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestFilterFromQuery(t *testing.T) {
	c := testContext(t, "/api/v1/transactions?search=kopi&type=expense&category=b9e7a4c2-1111-2222-3333-444455556666&dateFrom=2026-01-01&dateTo=2026-01-31&page=2&limit=10")

	filter := filterFromQuery(c)

	assert.Equal(t, "kopi", filter.Search)
	assert.Equal(t, "expense", filter.Type)
	assert.Equal(t, "b9e7a4c2-1111-2222-3333-444455556666", filter.CategoryID)
	assert.Equal(t, "2026-01-01", filter.DateFrom)
	assert.Equal(t, "2026-01-31", filter.DateTo)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 10, filter.Limit)
}

func TestFilterFromQuery_SnakeCaseAliases(t *testing.T) {
	c := testContext(t, "/api/v1/transactions?category_id=cat-1&date_from=2026-02-01&date_to=2026-02-28")

	filter := filterFromQuery(c)

	assert.Equal(t, "cat-1", filter.CategoryID)
	assert.Equal(t, "2026-02-01", filter.DateFrom)
	assert.Equal(t, "2026-02-28", filter.DateTo)
}

func TestFilterFromQuery_Defaults(t *testing.T) {
	c := testContext(t, "/api/v1/transactions")

	filter := filterFromQuery(c)

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Empty(t, filter.CategoryID)
	assert.Empty(t, filter.DateFrom)
	assert.Empty(t, filter.DateTo)
}
