package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"saas_juridico_gateway/middleware"
	"saas_juridico_gateway/services"
	"saas_juridico_gateway/services/backend"
	"saas_juridico_gateway/services/i18n"
	"saas_juridico_gateway/services/judicial"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testToken = "Bearer test-token"

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := i18n.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeBackend is a Backend Data Service double that records every hit
type fakeBackend struct {
	*httptest.Server
	mux  *http.ServeMux
	mu   sync.Mutex
	hits []*http.Request
	body map[*http.Request]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux(), body: map[*http.Request]string{}}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.hits = append(fb.hits, r)
		fb.body[r] = string(raw)
		fb.mu.Unlock()
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

// reply registers pattern (e.g. "GET /api/v1/company/processes") to answer with payload
func (fb *fakeBackend) reply(pattern string, status int, payload any) {
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func (fb *fakeBackend) handle(pattern string, h http.HandlerFunc) {
	fb.mux.HandleFunc(pattern, h)
}

func (fb *fakeBackend) hitCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.hits)
}

func (fb *fakeBackend) lastHit() (*http.Request, string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.hits) == 0 {
		return nil, ""
	}
	r := fb.hits[len(fb.hits)-1]
	return r, fb.body[r]
}

// setupEcho wires the gateway the way cmd/server does, against baseURL
func setupEcho(t *testing.T, baseURL string) *echo.Echo {
	t.Helper()
	return setupEchoWithCourts(t, baseURL, nil)
}

func setupEchoWithCourts(t *testing.T, baseURL string, courts judicial.Provider) *echo.Echo {
	t.Helper()

	client := backend.NewClient(baseURL, 5*time.Second)
	dashboard := services.NewDashboardService(client, 4).WithClock(func() time.Time { return testNow })

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.Locale())
	e.GET("/healthz", HealthzHandler)

	company := e.Group("/api/v1/company")
	company.Use(middleware.RequireBearer())
	RegisterCompanyRoutes(company, dashboard, client, courts)

	return e
}

func doRequest(e *echo.Echo, method, target, authorization string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	return serve(e, req)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[ErrorResponse](t, rec).Error
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
