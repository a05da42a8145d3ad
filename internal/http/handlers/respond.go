package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is one entry of a GraphQL errors array for failures that happen
// before execution: bad bodies, wrong methods.
type APIError struct {
	Message    string     `json:"message"`
	Extensions Extensions `json:"extensions"`
}

type Extensions struct {
	Code      string      `json:"code"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"errors": []APIError{{
			Message: message,
			Extensions: Extensions{
				Code:      code,
				RequestID: requestIDFrom(ctx),
				Details:   details,
			},
		}},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondMethodNotAllowed(ctx *gin.Context, allow, message string) {
	ctx.Header("Allow", allow)
	RespondError(ctx, http.StatusMethodNotAllowed, "method_not_allowed", message, nil)
}
