package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
)

const requestIDHeader = "X-Request-ID"

type ctxKey string

const (
	customerCtxKey  ctxKey = "customer"
	tokenCtxKey     ctxKey = "token"
	requestIDCtxKey ctxKey = "request_id"
)

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		ctx := context.WithValue(c.Request.Context(), requestIDCtxKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestIDFrom(c.Request.Context())),
		}
		if cust, ok := c.Request.Context().Value(customerCtxKey).(*domain.Customer); ok {
			fields = append(fields, zap.Int64("customer_id", cust.ID))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			lg.Error("request", fields...)
		case status >= http.StatusBadRequest:
			lg.Info("request", fields...)
		default:
			lg.Debug("request", fields...)
		}
	}
}

// authMiddleware resolves "Authorization: Token <key>" (or Bearer) to the
// calling customer.
func authMiddleware(lg *zap.Logger, svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || svc == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("authentication credentials were not provided"))
			return
		}
		cust, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, lg, err)
			c.Abort()
			return
		}
		ctx := context.WithValue(c.Request.Context(), customerCtxKey, cust)
		ctx = context.WithValue(ctx, tokenCtxKey, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(token)
	}
	return ""
}

// currentCustomer returns the customer set by authMiddleware.
func currentCustomer(c *gin.Context) *domain.Customer {
	cust, _ := c.Request.Context().Value(customerCtxKey).(*domain.Customer)
	return cust
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}
