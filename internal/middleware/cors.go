package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/config"
)

// CORS adds the configured CORS headers and short-circuits preflight
// requests.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
		h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
		h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
