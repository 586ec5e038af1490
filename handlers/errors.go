package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"saas_juridico_gateway/services/i18n"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPErrorHandler renders every error as {"error": "..."}. Framework errors
// that carry only the status text are replaced by a localized message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		case nil:
		default:
			message = fmt.Sprint(m)
		}
		if he.Internal != nil {
			log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, he.Internal)
		}
	} else {
		log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if message == "" || message == http.StatusText(code) {
		message = defaultMessage(c, code)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: message})
	}
	if err != nil {
		log.Printf("[ERROR] failed to write error response: %v", err)
	}
}

func defaultMessage(c echo.Context, code int) string {
	ctx := c.Request().Context()
	switch code {
	case http.StatusNotFound:
		return i18n.T(ctx, "errors.route_not_found")
	case http.StatusMethodNotAllowed:
		return i18n.T(ctx, "errors.method_not_allowed")
	case http.StatusUnauthorized:
		return i18n.T(ctx, "errors.unauthorized")
	case http.StatusTooManyRequests:
		return i18n.T(ctx, "errors.rate_limited")
	}
	if code >= http.StatusInternalServerError {
		return i18n.T(ctx, "errors.internal")
	}
	return http.StatusText(code)
}

// jsonError builds an HTTP error with a localized message
func jsonError(c echo.Context, code int, key string, args ...map[string]interface{}) error {
	return echo.NewHTTPError(code, i18n.T(c.Request().Context(), key, args...))
}
