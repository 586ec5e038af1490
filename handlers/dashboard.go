package handlers

import (
	"fmt"
	"log"
	"net/http"

	"saas_juridico_gateway/middleware"
	"saas_juridico_gateway/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardStatsHandler returns the merged stat summaries
// GET /api/v1/company/dashboard/stats
func DashboardStatsHandler(svc *services.DashboardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats := svc.Stats(c.Request().Context(), authorization(c))
		return c.JSON(http.StatusOK, stats)
	}
}

// RecentActivitiesHandler returns the ten latest activities
// GET /api/v1/company/dashboard/recent-activities
func RecentActivitiesHandler(svc *services.DashboardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		activities, err := svc.RecentActivities(c.Request().Context(), authorization(c))
		if err != nil {
			log.Printf("[DASHBOARD] recent activities failed: %v", err)
			return jsonError(c, http.StatusInternalServerError, "errors.internal")
		}
		return c.JSON(http.StatusOK, activities)
	}
}

// UrgentDeadlinesHandler returns pending deadlines due within a week, overdue first
// GET /api/v1/company/dashboard/urgent-deadlines
func UrgentDeadlinesHandler(svc *services.DashboardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		deadlines, err := svc.UrgentDeadlines(c.Request().Context(), authorization(c))
		if err != nil {
			log.Printf("[DASHBOARD] urgent deadlines failed: %v", err)
			return jsonError(c, http.StatusInternalServerError, "errors.internal")
		}
		return c.JSON(http.StatusOK, deadlines)
	}
}

// DashboardExportHandler downloads the dashboard as an xlsx workbook
// GET /api/v1/company/dashboard/export
func DashboardExportHandler(svc *services.DashboardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		report, err := svc.BuildDashboardReport(ctx, authorization(c))
		if err != nil {
			log.Printf("[DASHBOARD] export failed: %v", err)
			return jsonError(c, http.StatusInternalServerError, "errors.internal")
		}

		buf, err := services.GenerateDashboardWorkbook(ctx, report)
		if err != nil {
			log.Printf("[DASHBOARD] workbook generation failed: %v", err)
			return jsonError(c, http.StatusInternalServerError, "errors.internal")
		}

		filename := fmt.Sprintf("dashboard_%s.xlsx", report.GeneratedAt.Format("20060102_150405"))
		c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
		return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

// authorization is the caller's header as stored by RequireBearer
func authorization(c echo.Context) string {
	if value := middleware.GetAuthorization(c); value != "" {
		return value
	}
	return c.Request().Header.Get(echo.HeaderAuthorization)
}
