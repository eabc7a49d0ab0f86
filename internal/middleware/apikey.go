package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header checked by WriteProtection.
const APIKeyHeader = "X-API-Key"

// WriteProtection creates a Gin middleware that requires the X-API-Key
// header on state-changing requests. Reads stay open. An empty apiKey
// disables the check.
func WriteProtection(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || readOnly(c.Request.Method) {
			c.Next()
			return
		}
		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_API_KEY", "message": "Invalid or missing API key"}})
			return
		}
		c.Next()
	}
}

func readOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
