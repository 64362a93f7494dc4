package api

import (
	"aptdeals/server/internal/metrics"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, m *metrics.Metrics) {
	api := router.Group("/api")
	{
		api.GET("/regions/resolve", handler.ResolveRegion)
		api.GET("/transactions", handler.SearchTransactions)
		api.GET("/transactions/export", handler.ExportTransactions)
		api.GET("/area-bands", handler.GetAreaBand)
		api.POST("/keyword/evaluate", handler.EvaluateKeyword)
		api.GET("/preferences", handler.GetPreferences)
		api.PUT("/preferences", handler.UpdatePreferences)
	}

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
}
