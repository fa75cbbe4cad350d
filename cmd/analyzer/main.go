package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/los-clearance/cmd/analyzer/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	var configPath string
	var inputs app.Inputs
	flag.StringVar(&configPath, "c", "", "Path to the configuration file (optional)")
	flag.StringVar(&inputs.TowerParameters, "p", "tower_parameters.json", "Path to the tower parameters file")
	flag.StringVar(&inputs.ProfileCSV, "e", "", "Path to the elevation profile CSV (optional)")
	flag.Parse()

	config := app.NewConfig()
	if configPath != "" {
		var err error
		if config, err = app.LoadConfig(configPath); err != nil {
			logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
			os.Exit(1)
		}
	}

	logLevel.Set(config.Settings.LogLevel.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, config, inputs, logger); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
