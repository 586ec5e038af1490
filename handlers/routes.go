package handlers

import (
	"saas_juridico_gateway/services"
	"saas_juridico_gateway/services/judicial"

	"github.com/labstack/echo/v4"
)

// RegisterCompanyRoutes mounts the dashboard, CNJ tools and resource proxy on
// the authenticated /api/v1/company group. courts may be nil when no court
// lookup is configured.
func RegisterCompanyRoutes(g *echo.Group, dashboard *services.DashboardService, fw Forwarder, courts judicial.Provider) {
	dash := g.Group("/dashboard")
	{
		dash.GET("/stats", DashboardStatsHandler(dashboard))
		dash.GET("/recent-activities", RecentActivitiesHandler(dashboard))
		dash.GET("/urgent-deadlines", UrgentDeadlinesHandler(dashboard))
		dash.GET("/export", DashboardExportHandler(dashboard))
	}

	cnj := g.Group("/cnj")
	{
		cnj.GET("/validate", ValidateCNJNumberHandler)
		cnj.POST("/build", BuildCNJNumberHandler)
		cnj.GET("/lookup", LookupCNJNumberHandler(courts))
	}

	RegisterResourceRoutes(g, fw)
}
