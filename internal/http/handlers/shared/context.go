package shared

import (
	"github.com/magazine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint reads a uint value from the request context, writing the
// error reply itself when the value is missing or malformed.
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "context_value_invalid", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "context_value_invalid", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "context_value_invalid", nil)
		return 0, false
	}
}

// GetContextBool reads a bool flag from the request context, defaulting to false.
func GetContextBool(c *gin.Context, key string) bool {
	value, exists := c.Get(key)
	if !exists {
		return false
	}
	flag, ok := value.(bool)
	return ok && flag
}
