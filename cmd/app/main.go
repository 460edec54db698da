package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpapi "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/badgerjournal"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/pkg/tracing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := newLogger(configs.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "fulfillment", configs.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Error setting up tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	journalDB, err := badgerjournal.Open(configs.JournalPath)
	if err != nil {
		log.Fatalf("Error opening saga journal: %v", err)
	}
	defer journalDB.Close()

	app, err := cmd.NewCompositionRoot(configs, gormDB, journalDB, logger)
	if err != nil {
		log.Fatalf("Error wiring application: %v", err)
	}
	defer app.Close()

	seed, err := cmd.LoadSeed(configs.SeedPath)
	if err != nil {
		log.Fatalf("Error loading seed: %v", err)
	}
	if err = app.ApplySeed(ctx, seed); err != nil {
		log.Fatalf("Error applying seed: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	doc, err := httpapi.LoadOpenAPI(ctx)
	if err != nil {
		e.Logger.Fatal(err)
	}
	app.CreateServer().Register(e, doc)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
		}
		return
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
}
