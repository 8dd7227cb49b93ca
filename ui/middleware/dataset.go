package middleware

import (
	"log"
	"net/http"

	"tribodash/internal/errors"
	"tribodash/ui/services"

	"github.com/gin-gonic/gin"
)

// EnsureDataset loads the dataset before the handler runs so a broken source
// answers 503 instead of failing deep inside a handler
func EnsureDataset(data *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if data == nil {
			log.Printf("[EnsureDataset] Dataset store not available, skipping dataset check")
			c.Next()
			return
		}

		if _, _, err := data.Dataset(c.Request.Context()); err != nil {
			log.Printf("[EnsureDataset] Dataset %s unavailable: %v", data.Path(), err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": err.Error(),
				"code":  errors.GetCode(err),
			})
			return
		}

		c.Next()
	}
}
