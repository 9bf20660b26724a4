package handlers

import (
	"context"

	"github.com/SAP-F-2025/spirit-profile-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

// RequestContext assigns a request ID and copies request metadata into the
// request context, where the service loggers pick it up.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(RequestIDHeader, id)

		ctx := context.WithValue(c.Request.Context(), services.RequestIDKey, id)
		ctx = context.WithValue(ctx, services.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, services.UserAgentKey, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
