package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"fooddelivery/cmd"
	"fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	gormDB, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobManager := app.NewJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err := run(ctx, app, configs.HTTPPort, logger); err != nil {
		logger.Error("Server stopped", "error", err)
	}
}

func getConfigs() cmd.Config {
	// .env is optional; the process environment wins.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	config, err := cmd.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func run(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	if err := http.Register(e, app.NewServer(), app.Verifier(), logger, app.HealthChecks()...); err != nil {
		return err
	}
	app.NewGateway().Register(e)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", port))
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	})

	if relay := app.Relay(); relay != nil {
		g.Go(func() error {
			return relay(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
