package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dompetku/dompetku-api/middleware"
	"github.com/dompetku/dompetku-api/models"
	"github.com/dompetku/dompetku-api/services"
	"github.com/dompetku/dompetku-api/utils"
)

type CategoryHandler struct {
	Categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	categories, err := h.Categories.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Categories.Create(c.Request.Context(), userID, req)
	if errors.Is(err, services.ErrDuplicateCategory) {
		c.JSON(http.StatusConflict, gin.H{"error": "Kategori dengan nama ini sudah ada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Categories.Update(c.Request.Context(), userID, categoryID, req)
	switch {
	case errors.Is(err, services.ErrDuplicateCategory):
		c.JSON(http.StatusConflict, gin.H{"error": "Kategori dengan nama ini sudah ada"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Kategori tidak ditemukan"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
	default:
		c.JSON(http.StatusOK, category)
	}
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	err := h.Categories.Delete(c.Request.Context(), userID, categoryID)
	switch {
	case errors.Is(err, services.ErrCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Kategori ini masih digunakan pada transaksi atau budget plan. Hapus atau ubah data terkait terlebih dahulu.",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Kategori tidak ditemukan"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": utils.UserMessage(err)})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Kategori berhasil dihapus"})
	}
}
