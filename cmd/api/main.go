package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	apphttp "ghgdeck/internal/adapters/http"
	natsadapter "ghgdeck/internal/adapters/nats"
	"ghgdeck/internal/adapters/source"
	"ghgdeck/internal/adapters/valkey"
	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/core/ports"
	"ghgdeck/internal/core/usecases"
	"ghgdeck/internal/pkg/config"
	"ghgdeck/internal/pkg/logging"
	"ghgdeck/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("ghgdeck-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("ghgdeck-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache (optional; load cycles fetch upstream when absent)
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS (optional; reload events and the WS relay degrade to no-ops)
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		events = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Upstream document source
	src := source.New(cfg.Manifest.URL, time.Duration(cfg.Manifest.FetchTimeout)*time.Second)

	// Use cases
	viewportSvc := usecases.NewViewportService(domain.ViewportProfile{
		PadDegrees:  cfg.Viewport.PadDegrees,
		MinZoom:     cfg.Viewport.MinZoom,
		MaxZoom:     cfg.Viewport.MaxZoom,
		InitialZoom: cfg.Viewport.InitialZoom,
		Pitch:       cfg.Viewport.Pitch,
	})
	composerSvc := usecases.NewComposerService(usecases.TerrainSources{
		ElevationTiles: cfg.Terrain.ElevationTiles,
		TextureTiles:   cfg.Terrain.TextureTiles,
	})
	dashboardSvc := usecases.NewDashboardService(src, cacheSvc, events, composerSvc, viewportSvc, usecases.DashboardConfig{
		ManifestPath:    cfg.Manifest.URL,
		PrefetchAll:     cfg.Manifest.PrefetchAll,
		CacheTTLSeconds: cfg.Manifest.CacheTTLSeconds,
		Compose: usecases.ComposeOptions{
			MaskEnabled:   cfg.Compose.MaskEnabled,
			FacilityStyle: usecases.FacilityStyle(cfg.Compose.FacilityStyle),
			ReportingYear: cfg.Compose.ReportingYear,
		},
	})
	tooltipSvc := usecases.NewTooltipService(language.English)

	// First load; serve anyway so /v1/reload can recover
	if _, err := dashboardSvc.Reload(ctx); err != nil {
		slog.Warn("initial load failed", "error", err)
	}

	// Periodic refresh
	if cfg.Manifest.RefreshMinutes > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Manifest.RefreshMinutes) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if _, err := dashboardSvc.Reload(ctx); err != nil {
						slog.Warn("scheduled reload failed", "error", err)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	deps := &apphttp.Dependencies{
		Dashboard: dashboardSvc,
		Viewport:  viewportSvc,
		Tooltips:  tooltipSvc,
		NATS:      natsConn,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "GHG Dashboard API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	apphttp.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
