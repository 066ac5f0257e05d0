package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dompetku/dompetku-api/middleware"
	"github.com/dompetku/dompetku-api/models"
	"github.com/dompetku/dompetku-api/services"
	"github.com/dompetku/dompetku-api/utils"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	WS      *WSHandler
}

func NewBudgetHandler(budgets *services.BudgetService, ws *WSHandler) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, WS: ws}
}

func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	plans, err := h.Budgets.ListWithStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, plans)
}

func (h *BudgetHandler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)

	plan, err := h.Budgets.GetByID(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget plan tidak ditemukan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.BudgetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.Budgets.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writePlanError(c, err)
		return
	}

	// A new plan over existing spending may already be past its threshold.
	h.evaluateAlerts(c, userID)

	c.JSON(http.StatusCreated, plan)
}

func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.BudgetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.Budgets.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.writePlanError(c, err)
		return
	}

	h.evaluateAlerts(c, userID)

	c.JSON(http.StatusOK, plan)
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.Budgets.Delete(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget plan tidak ditemukan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget plan berhasil dihapus"})
}

func (h *BudgetHandler) ListAlerts(c *gin.Context) {
	userID := middleware.GetUserID(c)

	alerts, err := h.Budgets.ListAlerts(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *BudgetHandler) MarkAlertRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.Budgets.MarkAlertRead(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert tidak ditemukan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert ditandai sudah dibaca"})
}

func (h *BudgetHandler) MarkAllAlertsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.Budgets.MarkAllAlertsRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Semua alert ditandai sudah dibaca",
		"count":   count,
	})
}

func (h *BudgetHandler) evaluateAlerts(c *gin.Context, userID string) {
	created, err := h.Budgets.EvaluateAlerts(c.Request.Context(), userID)
	if err != nil {
		utils.SafeLogf("⚠️ Alert evaluation failed for user %s: %v", userID, err)
		return
	}

	if len(created) > 0 && h.WS != nil {
		h.WS.BroadcastAlerts(userID, created)
	}
}

func (h *BudgetHandler) writePlanError(c *gin.Context, err error) {
	var dup *services.DuplicatePlanError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Budget plan untuk \"%s\" sudah ada. Satu kategori hanya bisa memiliki 1 budget plan aktif. Silakan edit budget plan yang sudah ada.", dup.Scope),
		})
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jumlah budget harus lebih dari 0"})
	case errors.Is(err, services.ErrInvalidThreshold):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alert threshold harus antara 0 dan 100"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Kategori atau budget plan tidak ditemukan"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
	}
}
