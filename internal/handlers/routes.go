package handlers

import (
	"github.com/gin-gonic/gin"

	"finboard/internal/services"
)

// RegisterRoutes mounts every dashboard endpoint on rg.
func RegisterRoutes(rg *gin.RouterGroup, svc services.DashboardServicer) {
	transactionHandler := NewTransactionHandler(svc)
	settingsHandler := NewSettingsHandler(svc)
	statsHandler := NewStatsHandler(svc)
	dataHandler := NewDataHandler(svc)
	contactHandler := NewContactHandler(svc)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", transactionHandler.ListTransactions)
		transactions.POST("", transactionHandler.CreateTransaction)
		transactions.POST("/sort", transactionHandler.ToggleSort)
		transactions.GET("/:id", transactionHandler.GetTransaction)
		transactions.PUT("/:id", transactionHandler.UpdateTransaction)
		transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	}

	settings := rg.Group("/settings")
	{
		settings.GET("", settingsHandler.GetSettings)
		settings.PUT("", settingsHandler.UpdateSettings)
		settings.PUT("/currency", settingsHandler.SetCurrency)
		settings.POST("/rates/refresh", settingsHandler.RefreshRates)
	}

	rg.GET("/stats", statsHandler.GetStats)
	rg.GET("/export", dataHandler.Export)
	rg.POST("/import", dataHandler.Import)
	rg.POST("/contact/validate", contactHandler.ValidateContact)
}
