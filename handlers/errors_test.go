package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestHTTPErrorHandler(t *testing.T) {
	fb := newFakeBackend(t)
	e := setupEcho(t, fb.URL)

	t.Run("Unknown route", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/nope", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Recurso não encontrado", errorMessage(t, rec))
	})

	t.Run("Unknown route in English", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/nope?lang=en", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Resource not found", errorMessage(t, rec))
	})

	t.Run("Plain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		HTTPErrorHandler(errors.New("boom"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Erro interno do servidor"}`, rec.Body.String())
	})

	t.Run("HTTP error message kept", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		HTTPErrorHandler(echo.NewHTTPError(http.StatusConflict, "já existe"), c)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"já existe"}`, rec.Body.String())
	})

	t.Run("Bare client error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

		HTTPErrorHandler(echo.ErrUnsupportedMediaType, c)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.JSONEq(t, `{"error":"Unsupported Media Type"}`, rec.Body.String())
	})

	t.Run("HEAD has no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

		HTTPErrorHandler(echo.ErrNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("Committed response untouched", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, c.NoContent(http.StatusAccepted))

		HTTPErrorHandler(errors.New("late"), c)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestHealthzHandler(t *testing.T) {
	fb := newFakeBackend(t)
	e := setupEcho(t, fb.URL)

	rec := doRequest(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, 0, fb.hitCount())
}
