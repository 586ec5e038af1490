package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saas_juridico_gateway/config"
	"saas_juridico_gateway/handlers"
	"saas_juridico_gateway/middleware"
	"saas_juridico_gateway/services"
	"saas_juridico_gateway/services/backend"
	"saas_juridico_gateway/services/i18n"
	"saas_juridico_gateway/services/judicial"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Load message catalogues
	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	i18n.SetDefaultLanguage(cfg.DefaultLocale)

	// Backend Data Service client and aggregation
	client := backend.NewClient(cfg.BackendURL, cfg.UpstreamTimeout).WithDebugErrors(cfg.DebugUpstream)
	dashboard := services.NewDashboardService(client, cfg.FanOutLimit)

	// Court lookup (DataJud) is optional
	if cfg.DataJudAPIKey != "" {
		judicial.RegisterProvider(judicial.CountryBrazil, judicial.NewDataJudService(cfg.DataJudURL, cfg.DataJudAPIKey, cfg.UpstreamTimeout))
	}
	courts, err := judicial.GetProvider(judicial.CountryBrazil)
	if err != nil {
		log.Printf("[CNJ] Court lookup disabled: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Accept-Language"},
	}))
	e.Use(middleware.Locale())

	// Public routes
	e.GET("/healthz", handlers.HealthzHandler)

	// Company API (bearer token required, forwarded to the backend)
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: cfg.RateLimitRequests,
		Window:   cfg.RateLimitWindow,
	})
	defer limiter.Stop()

	company := e.Group(backend.CompanyAPIPrefix)
	company.Use(limiter.Middleware())
	company.Use(middleware.RequireBearer())
	company.Use(middleware.AuditLog())
	handlers.RegisterCompanyRoutes(company, dashboard, client, courts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		defer close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s (backend %s, environment %s)", cfg.ServerPort, client.BaseURL(), cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}

	<-shutdownDone
	log.Println("Server stopped")
}
