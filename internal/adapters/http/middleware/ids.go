package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows one user action across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin key holding the request id.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin key holding the correlation id.
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds ids accepted from callers.
const maxIDLength = 128

type idKind struct {
	header string
	ginKey string
	store  func(context.Context, string) context.Context
	enrich func(context.Context, string) context.Context
}

// RequestID reuses the caller's X-Request-ID or mints a UUID, echoes it in
// the response, and records it on the gin context, the request context,
// and the request logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idKind{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		store:  ContextWithRequestID,
		enrich: logging.WithRequestID,
	})
}

// CorrelationID is RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idKind{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		store:  ContextWithCorrelationID,
		enrich: logging.WithCorrelationID,
	})
}

func idMiddleware(k idKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if id == "" || len(id) > maxIDLength {
			id = uuid.NewString()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)
		c.Request = c.Request.WithContext(k.enrich(k.store(c.Request.Context(), id), id))

		c.Next()
	}
}

// GetRequestID returns the request id, or "" outside the middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
