// Command seed imports restaurants and meals from an xlsx workbook into the
// configured store.
//
//	seed -file menu.xlsx
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bytebite/cmd"
	"bytebite/internal/pkg/logger"

	"github.com/labstack/gommon/log"
)

func main() {
	file := flag.String("file", "menu.xlsx", "workbook with a Meals sheet")
	flag.Parse()

	configs := cmd.LoadConfig()
	// seeding never touches the queue
	configs.QueueDriver = cmd.QueueDriverMemory
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.New(configs.ServiceName+"-seed", configs.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err = seed(*file, configs, appLogger); err != nil {
		appLogger.Error("seed failed", logger.Error(err))
		os.Exit(1)
	}
}

func seed(file string, configs cmd.Config, appLogger logger.ILogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	app, err := cmd.NewCompositionRoot(ctx, configs, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	report, err := app.CreateMenuImporter().Import(ctx, f)
	if err != nil {
		return err
	}
	if len(report.Errors) > 0 {
		appLogger.Warn("some rows were skipped", logger.Int("skipped", len(report.Errors)))
	}
	return nil
}
