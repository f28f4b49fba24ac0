package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	analyticsExport "market-insights-service/internal/analytics/adapters/export"
	analyticsHttp "market-insights-service/internal/analytics/adapters/http/fiber"
	analyticsUsecase "market-insights-service/internal/analytics/core/usecase"

	recordsHttp "market-insights-service/internal/records/adapters/http/fiber"
	recordsUsecase "market-insights-service/internal/records/core/usecase"

	"market-insights-service/internal/bootstrap"
	"market-insights-service/internal/config"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "market-insights-service/docs"
)

// @title Market Insights API
// @version 1.0
// @description Record ingestion and dashboard statistics for electricity-market message traffic.
// @BasePath /
func main() {
	configPath := flag.String("config", "", "Path to a TOML, YAML, or JSON configuration file")
	flag.Parse()

	// Config
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	loc, err := cfg.Dashboard.TimeLocation()
	if err != nil {
		log.Fatalf("invalid dashboard location: %v", err)
	}

	// Record store (+ redis cache when configured)
	stores, err := bootstrap.OpenStores(context.Background(), cfg, bootstrap.Options{
		Migrate: true,
		Logger:  log.Default(),
	})
	if err != nil {
		log.Fatalf("failed to open %s record store: %v", cfg.Store.Driver, err)
	}
	defer stores.Close()

	// Usecases
	getDashboardUC := analyticsUsecase.NewGetDashboardUseCase(
		stores.Reader,
		analyticsUsecase.NewResolver(analyticsUsecase.WithLocation(loc)),
		loc,
	)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	// records endpoints, only for writable stores
	if stores.Repository != nil {
		storeRecordUC := recordsUsecase.NewStoreRecordUseCase(stores.Repository, recordsUsecase.WithLocation(loc))
		recordsHttp.NewRecordHandler(storeRecordUC).Register(app)
	} else {
		log.Printf("%s store is read-only, ingestion endpoints disabled", cfg.Store.Driver)
	}

	// dashboard endpoints
	analyticsHttp.NewDashboardHandler(getDashboardUC, stores.Reader, analyticsExport.New(), analyticsHttp.Defaults{
		Preset:    cfg.Dashboard.DefaultPreset,
		Dimension: cfg.Dashboard.DefaultDimension,
		Location:  loc,
	}).Register(app)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			log.Printf("fiber stopped: %v", err)
		}
	}()

	log.Printf("server started on %s (store %s)", cfg.HTTP.Addr, cfg.Store.Driver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("fiber shutdown error: %v", err)
	}

	log.Println("server exiting")
}
