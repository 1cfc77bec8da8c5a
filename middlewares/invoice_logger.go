package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/catering-app/utils"
)

func InvoiceLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.InfoLogger.Printf("Generating invoice for booking ID: %s", c.Param("id"))

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.Printf("Invoice generated for booking ID: %s", c.Param("id"))
		} else {
			utils.ErrorLogger.Printf("Failed to generate invoice for booking ID: %s (status %d)", c.Param("id"), c.Writer.Status())
		}
	}
}
