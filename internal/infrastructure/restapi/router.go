package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the portfolio endpoints onto the router.
func RegisterRoutes(router *gin.Engine, portfolioHandler *PortfolioHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio", portfolioHandler.GetPortfolioHandler)
		v1.POST("/portfolio", portfolioHandler.PostPortfolioHandler)
		v1.POST("/portfolio/refresh", portfolioHandler.RefreshPortfolioHandler)
		v1.GET("/portfolio/current", portfolioHandler.CurrentPortfolioHandler)
	}

	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}
