package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"saas_juridico_gateway/services/i18n"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := i18n.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestRequireBearer(t *testing.T) {
	e := echo.New()

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		called := false
		handler := RequireBearer()(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})

		err := handler(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
		assert.Equal(t, "Token de autorização não fornecido", he.Message)
		assert.False(t, called)
	})

	t.Run("BlankHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "   ")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireBearer()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("LocalizedMessage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(i18n.WithLocale(req.Context(), "en"))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequireBearer()(func(c echo.Context) error { return nil })(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, "Authorization token not provided", he.Message)
	})

	t.Run("OpaqueToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer opaque-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireBearer()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bearer opaque-token", GetAuthorization(c))
		assert.Empty(t, GetTenant(c))
	})

	t.Run("JWTTenant", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"company_id": "company-7", "sub": "user-1"})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireBearer()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		assert.NoError(t, handler(c))
		assert.Equal(t, "company-7", GetTenant(c))
		assert.Equal(t, "Bearer "+token, GetAuthorization(c))
	})
}

func TestTenantFromToken(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"company_id first", jwt.MapClaims{"company_id": "c1", "tenant_id": "t1", "sub": "s1"}, "c1"},
		{"tenant_id fallback", jwt.MapClaims{"tenant_id": "t1", "sub": "s1"}, "t1"},
		{"sub fallback", jwt.MapClaims{"sub": "s1"}, "s1"},
		{"numeric claim ignored", jwt.MapClaims{"company_id": 42}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenantFromToken("Bearer "+signedToken(t, tt.claims)))
		})
	}

	t.Run("Not a bearer scheme", func(t *testing.T) {
		assert.Empty(t, tenantFromToken("Basic "+signedToken(t, jwt.MapClaims{"sub": "s1"})))
	})
}

func TestGetAuthorizationEmpty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, GetAuthorization(c))
	assert.Empty(t, GetTenant(c))
}
