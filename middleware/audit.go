package middleware

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext describes who made a gateway request
type AuditContext struct {
	RequestID string
	Tenant    string
	IPAddress string
	UserAgent string
}

// AuditLog records one "[AUDIT]" line per request once the handler returns.
// It must run after RequireBearer so the tenant is known.
func AuditLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			ctx := AuditContext{
				RequestID: requestID(c),
				Tenant:    GetTenant(c),
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			c.Set(ContextKeyAuditContext, ctx)

			err := next(c)

			tenant := ctx.Tenant
			if tenant == "" {
				tenant = "-"
			}
			log.Printf("[AUDIT] request_id=%s tenant=%s ip=%s method=%s path=%s status=%d latency=%s",
				ctx.RequestID, tenant, ctx.IPAddress, c.Request().Method, c.Request().URL.Path,
				responseStatus(c, err), time.Since(start).Round(time.Millisecond))

			return err
		}
	}
}

// GetAuditContext retrieves the audit context from the request
func GetAuditContext(c echo.Context) AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(AuditContext); ok {
		return ctx
	}
	return AuditContext{}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// responseStatus is the status the client will see; the error handler has not run yet
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
