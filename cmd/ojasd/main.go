package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/api"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/app"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/config"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/cron"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/metrics"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/notify"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	devLog     = flag.Bool("dev", false, "Use development logging")
	version    = "dev"
)

func main() {
	flag.Parse()

	if len(flag.Args()) > 0 && (flag.Arg(0) == "version" || flag.Arg(0) == "--version") {
		fmt.Printf("ojasd version %s\n", version)
		return
	}

	if err := config.LoadEnvFiles(); err != nil {
		log.Printf("warning: failed to load .env files: %v", err)
	}

	logger := newLogger()
	defer logger.Sync()

	logger.Info("Starting ojasd", zap.String("version", version))

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	st, err := store.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	notifier, err := notify.New(cfg.Notify.Telegram, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifier", zap.Error(err))
	}
	if notifier.Enabled() {
		logger.Info("Telegram alerts enabled")
	}

	application := app.New(cfg, st, logger, metrics.New(), notifier, version)
	server := api.New(cfg, application, logger)

	runner, err := cron.NewRunner(cfg.Engine.RefreshSchedule, application, logger)
	if err != nil {
		logger.Fatal("Failed to initialize refresh scheduler", zap.Error(err))
	}
	runner.Start()
	defer runner.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("Shutting down")
		if err := server.Shutdown(); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Listening",
		zap.String("address", cfg.Server.Address),
		zap.Int("port", cfg.Server.Port),
	)
	if err := server.Start(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if *devLog {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}
