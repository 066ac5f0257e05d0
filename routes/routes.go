package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/dompetku/dompetku-api/handlers"
	"github.com/dompetku/dompetku-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupCategoryRoutes sets up protected category routes.
func SetupCategoryRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := handlers.NewCategoryHandler(services.NewCategoryService(db))

	rg.GET("/categories", h.List)
	rg.POST("/categories", h.Create)
	rg.PUT("/categories/:id", h.Update)
	rg.DELETE("/categories/:id", h.Delete)
}

// SetupTransactionRoutes sets up protected transaction routes.
func SetupTransactionRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewTransactionHandler(services.NewTransactionService(db), services.NewBudgetService(db), ws)

	rg.GET("/transactions", h.List)
	rg.POST("/transactions", h.Create)
	rg.GET("/transactions/:id", h.GetByID)
	rg.PUT("/transactions/:id", h.Update)
	rg.DELETE("/transactions/:id", h.Delete)
}

// SetupBudgetRoutes sets up protected budget plan and alert routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewBudgetHandler(services.NewBudgetService(db), ws)

	rg.GET("/budgets", h.List)
	rg.POST("/budgets", h.Create)
	rg.GET("/budgets/:id", h.GetByID)
	rg.PUT("/budgets/:id", h.Update)
	rg.DELETE("/budgets/:id", h.Delete)

	rg.GET("/alerts", h.ListAlerts)
	rg.PUT("/alerts/read-all", h.MarkAllAlertsRead)
	rg.PUT("/alerts/:id/read", h.MarkAlertRead)
}

// SetupReportRoutes sets up protected dashboard and report routes.
func SetupReportRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := handlers.NewReportHandler(services.NewReportService(db), services.NewTransactionService(db))

	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/reports", h.Yearly)
	rg.GET("/reports/export", h.ExportCSV)
}

// SetupWSRoutes sets up the protected alert stream endpoint.
func SetupWSRoutes(rg *gin.RouterGroup, ws *handlers.WSHandler) {
	rg.GET("/ws/alerts", ws.Serve)
}
