package middleware

import (
	"net/http"
	"strings"

	"saas_juridico_gateway/services/i18n"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyAuthorization is the context key for the caller's Authorization header
	ContextKeyAuthorization = "authorization"
	// ContextKeyTenant is the context key for the tenant read from the token claims
	ContextKeyTenant = "tenant"
)

// tenantClaims are checked in order; the first non-empty string wins
var tenantClaims = []string{"company_id", "tenant_id", "sub"}

// RequireBearer rejects requests without an Authorization header.
// The header is stored verbatim for forwarding; it is never validated here.
func RequireBearer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authorization == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, i18n.T(c.Request().Context(), "errors.unauthorized"))
			}

			c.Set(ContextKeyAuthorization, c.Request().Header.Get(echo.HeaderAuthorization))
			if tenant := tenantFromToken(authorization); tenant != "" {
				c.Set(ContextKeyTenant, tenant)
			}

			return next(c)
		}
	}
}

// GetAuthorization retrieves the Authorization header stored by RequireBearer
func GetAuthorization(c echo.Context) string {
	authorization, ok := c.Get(ContextKeyAuthorization).(string)
	if !ok {
		return ""
	}
	return authorization
}

// GetTenant retrieves the tenant id, empty when the token carried none
func GetTenant(c echo.Context) string {
	tenant, ok := c.Get(ContextKeyTenant).(string)
	if !ok {
		return ""
	}
	return tenant
}

// tenantFromToken reads the claims of a JWT bearer token without verifying it.
// Opaque tokens yield "".
func tenantFromToken(authorization string) string {
	scheme, token, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return ""
	}

	for _, key := range tenantClaims {
		if value, ok := claims[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
