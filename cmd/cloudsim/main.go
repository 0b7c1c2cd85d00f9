// Package main is the entry point for the cloud resource simulator.
// It loads configuration, launches the seed resources, polls their usage on
// a fixed interval and serves Prometheus metrics, running either as a
// Windows service or a standalone foreground process.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Guliveer/simhub/internal/api"
	"github.com/Guliveer/simhub/internal/config"
	"github.com/Guliveer/simhub/internal/exporter"
	"github.com/Guliveer/simhub/internal/logging"
	"github.com/Guliveer/simhub/internal/metrics"
	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/poller"
	"github.com/Guliveer/simhub/internal/resource"
	"github.com/Guliveer/simhub/internal/sampler"
	"github.com/Guliveer/simhub/internal/service"
)

const (
	binaryName  = "cloudsim"
	serviceName = "SimhubCloudsim"

	// exportTimeout bounds a single batch delivery including retries.
	exportTimeout = 2 * time.Minute

	// shutdownExportGrace bounds the final flush once the run is stopping.
	shutdownExportGrace = 5 * time.Second
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: auto-discover)")
	showVersion = flag.Bool("version", false, "Show version and exit")
	writeConfig = flag.String("write-config", "", "Write the effective configuration to this path and exit")
	demoMode    = flag.Bool("demo", false, "Run the scripted demo for demo.duration, then tear down and exit")
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

	logger.Info("Starting cloud simulator",
		zap.String("usage_source", cfg.Cloud.UsageSource),
		zap.Int("seed_resources", len(cfg.Cloud.Resources)),
		zap.Bool("demo", *demoMode))

	if service.IsWindowsService() {
		logger.Info("Running as Windows service")
		svc := service.New(serviceName, logger, func(ctx context.Context) error {
			return run(ctx, cfg, logger, false)
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

	if err := run(ctx, cfg, logger, *demoMode); err != nil {
		logger.Fatal("Cloud simulator failed", zap.Error(err))
	}
	logger.Info("Cloud simulator stopped")
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadLayered(embeddedConfig, *configPath)
	}
	return config.LoadLayered(embeddedConfig)
}

// run wires the registry, poller, exporter and metrics server together and
// blocks until ctx is cancelled. In demo mode it also stops after
// demo.duration and removes every resource before returning.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, demo bool) error {
	m := metrics.New()

	src, err := sampler.New(cfg.Cloud.UsageSource, cfg.Cloud.DiskPath)
	if err != nil {
		return fmt.Errorf("creating usage source: %w", err)
	}

	registry := resource.NewRegistry(logger.Named("registry"))
	launchSeed(registry, cfg.Cloud.Resources, logger)
	if cfg.Cloud.Autostart || demo {
		registry.StartAll()
	}

	p := poller.New(registry, src, cfg, logger.Named("poller"), m)

	runCtx := ctx
	if demo {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Demo.Duration.Duration)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(runCtx)

	exp := exporter.New(cfg.Export, binaryName, logger.Named("exporter"), m)
	if exp.Enabled() {
		p.OnBatchReady(func(batch []models.CycleSnapshot) {
			sendCtx, cancel := exportContext(gctx)
			defer cancel()
			// Failures are logged and counted by the exporter
			_ = exp.Send(sendCtx, batch)
		})
	} else {
		logger.Info("Usage export disabled, no export.url configured")
	}

	g.Go(func() error {
		p.Start(gctx)
		return nil
	})
	if cfg.Cloud.MetricsAddr != "" {
		g.Go(func() error {
			opsLogger := logger.Named("http")
			return api.Serve(gctx, opsLogger, cfg.Cloud.MetricsAddr, api.OpsHandler(opsLogger, m, version))
		})
	}
	err = g.Wait()

	registry.StopAll()
	if demo {
		teardown(registry, m)
	}
	return err
}

// exportContext returns the context for one batch delivery. While parent is
// live the send is cancelled with it, so a stuck collector cannot hold up
// shutdown for the full export timeout. Once parent is done, as for the final
// flush, the send gets a short grace period of its own.
func exportContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent.Err() != nil {
		return context.WithTimeout(context.WithoutCancel(parent), shutdownExportGrace)
	}
	return context.WithTimeout(parent, exportTimeout)
}

// launchSeed launches the configured startup resources. Invalid entries are
// logged and skipped.
func launchSeed(registry *resource.Registry, seeds []config.SeedResource, logger *zap.Logger) {
	for _, seed := range seeds {
		if _, err := registry.Launch(seed.Kind, seed.Name); err != nil {
			logger.Warn("Skipping seed resource",
				zap.String("name", seed.Name),
				zap.Error(err))
		}
	}
}

// teardown removes every resource from the registry along with its metric
// series.
func teardown(registry *resource.Registry, m *metrics.Metrics) {
	for _, res := range registry.Resources() {
		if _, err := registry.Remove(res.Name()); err == nil {
			m.ForgetResource(res.Name())
		}
	}
	m.SetResourceCounts(0, 0)
}
