package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestAuditLog(t *testing.T) {
	e := echo.New()

	t.Run("FullContext", func(t *testing.T) {
		buf := captureLog(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/company/processes", nil)
		req.Header.Set("User-Agent", "test-agent")
		rec := httptest.NewRecorder()
		rec.Header().Set(echo.HeaderXRequestID, "req-1")
		c := e.NewContext(req, rec)
		c.Set(ContextKeyTenant, "company-7")

		handler := AuditLog()(func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})

		assert.NoError(t, handler(c))

		auditCtx := GetAuditContext(c)
		assert.Equal(t, "req-1", auditCtx.RequestID)
		assert.Equal(t, "company-7", auditCtx.Tenant)
		assert.Equal(t, "test-agent", auditCtx.UserAgent)
		assert.NotEmpty(t, auditCtx.IPAddress)

		line := buf.String()
		assert.Contains(t, line, "[AUDIT]")
		assert.Contains(t, line, "tenant=company-7")
		assert.Contains(t, line, "status=204")
		assert.Contains(t, line, "path=/api/v1/company/processes")
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		buf := captureLog(t)

		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		handler := AuditLog()(func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusNotFound, "missing")
		})

		assert.Error(t, handler(c))
		assert.Contains(t, buf.String(), "status=404")
		assert.Contains(t, buf.String(), "tenant=-")
	})

	t.Run("EmptyContext", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		assert.Equal(t, AuditContext{}, GetAuditContext(c))
	})
}
