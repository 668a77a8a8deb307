package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bytebite/cmd"
	"bytebite/internal/pkg/logger"

	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := cmd.LoadConfig()
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.New(configs.ServiceName, configs.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err = run(configs, appLogger); err != nil {
		appLogger.Error("service stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(configs cmd.Config, appLogger logger.ILogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			appLogger.Warn("failed to close clients", logger.Error(closeErr))
		}
	}()

	e, err := app.CreateRouter(ctx)
	if err != nil {
		return err
	}
	e.Logger.SetLevel(echoLogLevel(configs.LogLevel))

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening", logger.Int("port", configs.HTTPPort))
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%d", configs.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
