package middlewares

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireContentType rejects POST bodies whose media type is not listed.
func RequireContentType(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost {
			// ContentType drops parameters such as "; charset=utf-8"
			ct := strings.ToLower(c.ContentType())
			if !slices.Contains(allowed, ct) {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"errors": []gin.H{{
						"message":    "Content-Type must be one of " + strings.Join(allowed, ", "),
						"extensions": gin.H{"code": "unsupported_media_type"},
					}},
				})
				return
			}
		}
		c.Next()
	}
}
