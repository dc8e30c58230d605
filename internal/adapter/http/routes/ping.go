package routes

import (
	"net/http"

	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, pkg.Success(gin.H{"message": "pong"}))
	})
}
