package middleware

import (
	"strings"

	"saas_juridico_gateway/services/i18n"

	"github.com/labstack/echo/v4"
)

// ContextKeyLocale is the echo context key for the negotiated language
const ContextKeyLocale = "locale"

// Locale middleware handles language detection.
// Priority:
// 1. Query param "lang"
// 2. Accept-Language header
// 3. Default language of the catalogue
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := normalizeLanguage(c.QueryParam("lang"))

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}

			if lang == "" {
				lang = i18n.DefaultLanguage()
			}

			c.Set(ContextKeyLocale, lang)

			// services translate from the request context
			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get(ContextKeyLocale).(string); ok {
		return lang
	}
	return i18n.DefaultLanguage()
}

// fromAcceptLanguage picks the first supported tag in header order.
// Quality values are ignored.
func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if lang := normalizeLanguage(tag); lang != "" {
			return lang
		}
	}
	return ""
}

// normalizeLanguage maps a language tag to a catalogue name, "" when unsupported
func normalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case tag == "":
		return ""
	case tag == "pt" || strings.HasPrefix(tag, "pt-") || strings.HasPrefix(tag, "pt_"):
		return "pt-BR"
	case tag == "en" || strings.HasPrefix(tag, "en-") || strings.HasPrefix(tag, "en_"):
		return "en"
	}
	return ""
}
