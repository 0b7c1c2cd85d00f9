// Package main is the entry point for the IoT device simulator. It serves the
// device control API over HTTP and runs the motion simulator until stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Guliveer/simhub/internal/api"
	"github.com/Guliveer/simhub/internal/config"
	"github.com/Guliveer/simhub/internal/device"
	"github.com/Guliveer/simhub/internal/logging"
	"github.com/Guliveer/simhub/internal/metrics"
	"github.com/Guliveer/simhub/internal/service"
)

const (
	binaryName  = "iotsim"
	serviceName = "SimhubIotsim"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: auto-discover)")
	showVersion = flag.Bool("version", false, "Show version and exit")
	writeConfig = flag.String("write-config", "", "Write the effective configuration to this path and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("simhub-%s %s\n", binaryName, version)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if err := config.WriteConfig(cfg, *writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration written to %s\n", *writeConfig)
		os.Exit(0)
	}

	logger, err := logging.New(cfg.Logging, binaryName, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.Info("Starting IoT simulator",
		zap.String("http_addr", cfg.Devices.HTTPAddr))

	if service.IsWindowsService() {
		logger.Info("Running as Windows service")
		svc := service.New(serviceName, logger, func(ctx context.Context) error {
			return run(ctx, cfg, logger)
		})
		if err := svc.Run(); err != nil {
			logger.Fatal("Service failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("IoT simulator failed", zap.Error(err))
	}
	logger.Info("IoT simulator stopped")
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadLayered(embeddedConfig, *configPath)
	}
	return config.LoadLayered(embeddedConfig)
}

// run serves the device API and simulates motion until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	m := metrics.New()
	store := device.NewStore(device.WithMetrics(m))

	srv := api.New(cfg.Devices.HTTPAddr, store, logger.Named("http"), m, version)
	motion := device.NewMotionSimulator(store, cfg.Devices, logger.Named("motion"), m)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		motion.Run(gctx)
		return nil
	})
	return g.Wait()
}
