package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"trustlend.backend/pkg/utils"
)

const RequestIDKey = "request_id"

// RequestIDMiddleware assigns each request a unique id, honoring an
// X-Request-ID header when the caller supplies one. The id is placed in
// both the gin context and the request context so logger.WithContext can
// pick it up.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = utils.GenerateUUIDv7().String()
		}

		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
