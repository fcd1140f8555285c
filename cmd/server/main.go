package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/addressbook/internal"
	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/cookie"
	"github.com/dukerupert/addressbook/internal/handler"
	"github.com/dukerupert/addressbook/internal/handler/api"
	"github.com/dukerupert/addressbook/internal/handler/page"
	"github.com/dukerupert/addressbook/internal/middleware"
	"github.com/dukerupert/addressbook/internal/router"
	"github.com/dukerupert/addressbook/internal/routes"
	"github.com/dukerupert/addressbook/internal/session"
	"github.com/dukerupert/addressbook/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const (
	metricsNamespace = "addressbook"
	shutdownTimeout  = 10 * time.Second
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// ==========================================================================
	// Initialize metrics
	// ==========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	businessMetrics := telemetry.NewBusinessMetrics(metricsNamespace, registry)
	httpMetrics := middleware.NewMetrics(metricsNamespace, registry)

	// ==========================================================================
	// Initialize services
	// ==========================================================================

	lookupService := address.NewService(cfg.Lookup.Delay, logger, businessMetrics)

	// The page calls a remote lookup endpoint when one is configured, and
	// the in-process service otherwise.
	var pageFinder address.Finder = lookupService
	if cfg.Lookup.URL != "" {
		logger.Info("Using remote address lookup", "url", cfg.Lookup.URL)
		pageFinder = address.NewClient(cfg.Lookup.URL, cfg.Lookup.Timeout, logger)
	}

	logger.Info("Loading templates...", "dir", cfg.Web.TemplatesDir)
	renderer, err := handler.NewRenderer(cfg.Web.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	sessions := session.NewRegistry(cfg.Session.TTL, businessMetrics)
	cookies := cookie.NewConfig(cfg.Session.CookieName, cfg.Session.Secure, cfg.Session.TTL)

	// ==========================================================================
	// Initialize handlers
	// ==========================================================================

	pageDeps := routes.PageDeps{
		Handler: page.NewHandler(pageFinder, renderer, businessMetrics, logger),
	}
	apiDeps := routes.APIDeps{
		LookupHandler: api.NewLookupHandler(lookupService, logger),
	}
	opsDeps := routes.OpsDeps{
		Metrics:   httpMetrics.Handler(),
		StaticDir: cfg.Web.StaticDir,
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Session.Secure {
		securityConfig.HSTSMaxAge = 31536000
	}

	csrfConfig := middleware.DefaultCSRFConfig()

	rateLimiterConfig := middleware.DefaultRateLimiterConfig()
	rateLimiterConfig.RequestsPerSecond = cfg.Limits.RequestsPerSecond
	rateLimiterConfig.BurstSize = cfg.Limits.Burst
	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(cfg.Limits.TrustProxy),
		httpMetrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(cfg.Limits.RequestTimeout),
		rateLimiter.Middleware,
		router.Logger(logger),
	)

	routes.RegisterOpsRoutes(r, opsDeps)

	// The lookup is stateless and must not mint a session per call
	routes.RegisterLookupRoutes(r.Group(middleware.WithRequestLogger(logger)), apiDeps)

	// Everything a browser touches carries a session
	app := r.Group(
		middleware.Session(middleware.SessionConfig{Registry: sessions, Cookies: cookies}),
		middleware.WithRequestLogger(logger),
		middleware.CSRF(csrfConfig),
	)
	routes.RegisterPageRoutes(app, pageDeps)
	routes.RegisterAPIRoutes(app)

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		// Leaves room for the lookup delay inside the request timeout
		WriteTimeout: cfg.Limits.RequestTimeout + 5*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "address", srv.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(gctx, time.Minute, logger)
	})

	g.Go(func() error {
		return rateLimiter.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
