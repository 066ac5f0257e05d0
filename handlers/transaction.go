package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dompetku/dompetku-api/middleware"
	"github.com/dompetku/dompetku-api/models"
	"github.com/dompetku/dompetku-api/services"
	"github.com/dompetku/dompetku-api/utils"
)

type TransactionHandler struct {
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	WS           *WSHandler
}

func NewTransactionHandler(transactions *services.TransactionService, budgets *services.BudgetService, ws *WSHandler) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, Budgets: budgets, WS: ws}
}

// filterFromQuery reads the transactions view's query-string contract:
// search, type, category, dateFrom, dateTo, page, limit. The snake_case
// names are accepted as aliases for clients that still send them.
func filterFromQuery(c *gin.Context) models.TransactionFilter {
	query := func(names ...string) string {
		for _, name := range names {
			if v := c.Query(name); v != "" {
				return v
			}
		}
		return ""
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	return models.TransactionFilter{
		Search:     c.Query("search"),
		Type:       c.Query("type"),
		CategoryID: query("category", "category_id"),
		DateFrom:   query("dateFrom", "date_from"),
		DateTo:     query("dateTo", "date_to"),
		Page:       page,
		Limit:      limit,
	}
}

func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.Transactions.List(c.Request.Context(), userID, filterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)

	transaction, err := h.Transactions.GetByID(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaksi tidak ditemukan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}

	if transaction.Type == models.TypeExpense {
		h.evaluateAlerts(c, userID)
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}

	h.evaluateAlerts(c, userID)

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.Transactions.Delete(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaksi tidak ditemukan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	h.evaluateAlerts(c, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Transaksi berhasil dihapus"})
}

// evaluateAlerts recomputes budget alerts after an expense mutation. Failures
// never affect the mutation response, they are only logged.
func (h *TransactionHandler) evaluateAlerts(c *gin.Context, userID string) {
	created, err := h.Budgets.EvaluateAlerts(c.Request.Context(), userID)
	if err != nil {
		utils.SafeLogf("⚠️ Alert evaluation failed for user %s: %v", userID, err)
		return
	}

	if len(created) > 0 && h.WS != nil {
		h.WS.BroadcastAlerts(userID, created)
	}
}

func (h *TransactionHandler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jumlah harus berupa angka yang valid"})
	case errors.Is(err, services.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal tidak valid (YYYY-MM-DD)"})
	case errors.Is(err, services.ErrTypeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipe transaksi tidak sesuai dengan tipe kategori"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Kategori tidak ditemukan"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
	}
}
