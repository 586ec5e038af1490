package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"saas_juridico_gateway/services"
	"saas_juridico_gateway/services/i18n"
	"saas_juridico_gateway/services/judicial"

	"github.com/labstack/echo/v4"
)

// ValidateCNJNumberHandler checks a unified process number
// GET /api/v1/company/cnj/validate?number=
func ValidateCNJNumberHandler(c echo.Context) error {
	number := strings.TrimSpace(c.QueryParam("number"))
	if number == "" {
		return jsonError(c, http.StatusBadRequest, "errors.missing_number")
	}

	return c.JSON(http.StatusOK, services.ValidateCNJNumber(c.Request().Context(), number))
}

// BuildCNJNumberHandler builds a process number from its parts
// POST /api/v1/company/cnj/build
func BuildCNJNumberHandler(c echo.Context) error {
	ctx := c.Request().Context()

	// only a missing year takes the current one
	rawYear := strings.TrimSpace(c.FormValue("year"))
	year := time.Now().Year()
	yearValid := true
	if rawYear != "" {
		parsed, err := strconv.Atoi(rawYear)
		if err != nil {
			yearValid = false
		} else {
			year = parsed
		}
	}

	input := services.CNJNumberInput{
		Sequence: c.FormValue("sequence"),
		Year:     year,
		Segment:  c.FormValue("segment"),
		Court:    c.FormValue("court"),
		Origin:   c.FormValue("origin"),
	}

	// Validate input
	errs := services.ValidateCNJNumberInput(ctx, input)
	if !yearValid {
		errs = append(errs, i18n.T(ctx, "cnj.invalid_year", map[string]interface{}{"year": rawYear}))
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  errs[0],
			"errors": errs,
		})
	}

	number := services.BuildCNJNumber(input)
	components, err := services.ParseCNJNumber(number)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"number":    number,
		"formatted": services.FormatCNJNumber(components),
	})
}

// LookupCNJNumberHandler fetches the court record of a process from DataJud
// GET /api/v1/company/cnj/lookup?number=
func LookupCNJNumberHandler(courts judicial.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		number := strings.TrimSpace(c.QueryParam("number"))
		if number == "" {
			return jsonError(c, http.StatusBadRequest, "errors.missing_number")
		}

		validation := services.ValidateCNJNumber(ctx, number)
		if !validation.Valid {
			return echo.NewHTTPError(http.StatusBadRequest, validation.Errors[0])
		}

		if courts == nil {
			return jsonError(c, http.StatusServiceUnavailable, "errors.lookup_unavailable")
		}

		comp := validation.Components
		digits := comp.Sequence + comp.CheckDigits + comp.Year + comp.Segment + comp.Court + comp.Origin

		summary, err := courts.LookupProcess(ctx, digits)
		if err != nil {
			if errors.Is(err, judicial.ErrUnsupportedCourt) {
				return jsonError(c, http.StatusUnprocessableEntity, "cnj.unsupported_court", map[string]interface{}{
					"segment": comp.Segment,
					"court":   comp.Court,
				})
			}
			log.Printf("[CNJ] lookup of %s failed: %v", validation.Formatted, err)
			return jsonError(c, http.StatusBadGateway, "errors.court_unavailable")
		}
		if summary == nil {
			return jsonError(c, http.StatusNotFound, "cnj.process_not_found")
		}

		return c.JSON(http.StatusOK, summary)
	}
}
