package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	operatorHeader = "X-Operator-Name"
	operatorKey    = "operator_name"
)

// OperatorMiddleware resolves who is operating the console: the
// X-Operator-Name header when present, otherwise the saved name returned by
// fallback. The result may be empty.
func OperatorMiddleware(fallback func(ctx context.Context) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(operatorHeader))
		if name == "" && fallback != nil {
			saved, err := fallback(c.Request.Context())
			if err != nil {
				slog.Warn("resolve operator name", "error", err)
			}
			name = saved
		}
		c.Set(operatorKey, name)
		c.Next()
	}
}

// OperatorName returns the operator resolved for this request.
func OperatorName(c *gin.Context) string {
	return c.GetString(operatorKey)
}
