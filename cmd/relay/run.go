package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/relay/pkg/cli"
	"mercator-hq/relay/pkg/completion"
	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/evidence"
	"mercator-hq/relay/pkg/evidence/recorder"
	"mercator-hq/relay/pkg/evidence/retention"
	"mercator-hq/relay/pkg/evidence/storage"
	"mercator-hq/relay/pkg/providers/openai"
	"mercator-hq/relay/pkg/security/secrets"
	"mercator-hq/relay/pkg/server"
	"mercator-hq/relay/pkg/telemetry/health"
	"mercator-hq/relay/pkg/telemetry/logging"
	"mercator-hq/relay/pkg/telemetry/metrics"
	"mercator-hq/relay/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay server",
	Long: `Start the relay HTTP server.

POST /generate forwards {"message": "..."} to the configured chat-completion
model as a single user message and returns {"reply": "..."}.
GET /health always returns {"status":"ok"}.

Examples:
  # Start with defaults (127.0.0.1:8000, gpt-3.5-turbo)
  relay run

  # Override listen address
  relay run --listen 0.0.0.0:8000

  # Debug logging
  relay run --log-level debug`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("flags", err.Error())
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets == nil || *cfg.Telemetry.Logging.RedactSecrets,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Logger)

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	slog.Info("starting relay",
		"version", Version,
		"config", cfgFile,
		"model", cfg.Completion.Model,
		"evidence_enabled", cfg.Evidence.Enabled,
		"tracing_enabled", cfg.Telemetry.Tracing.Enabled,
	)

	tracer, err := tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	provider, err := openai.NewProvider(openai.Config{
		BaseURL:      cfg.Completion.BaseURL,
		Organization: cfg.Completion.Organization,
		APIKeySecret: cfg.Completion.APIKeyEnv,
		Timeout:      cfg.Completion.Timeout,
	}, secrets.NewEnvProvider(""))
	if err != nil {
		return cli.NewConfigError("completion", err.Error())
	}
	defer provider.Close()

	checker := health.New(0)

	opts := []completion.Option{
		completion.WithMetrics(collector),
		completion.WithTracer(tracer),
	}

	if cfg.Evidence.Enabled {
		trail, err := openEvidence(ctx, cfg.Evidence, collector)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer trail.Close()

		checker.RegisterCheck("evidence", trail.storage.Ping)
		opts = append(opts, completion.WithRecorder(trail.recorder))
	}

	adapter := completion.New(provider, cfg.Completion.Model, opts...)

	go watchConfig(ctx, logger)

	srv := server.NewServer(cfg.Server, cfg.Telemetry.Metrics, server.Dependencies{
		Completer: adapter,
		Metrics:   collector,
		Health:    checker,
		Tracer:    tracer,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	slog.Info("relay stopped")
	return nil
}

// evidenceTrail owns the evidence storage, recorder and pruner.
type evidenceTrail struct {
	storage  evidence.Storage
	recorder *recorder.Recorder
	pruner   *retention.Pruner
}

func openEvidence(ctx context.Context, cfg config.EvidenceConfig, collector *metrics.Collector) (*evidenceTrail, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open evidence storage: %w", err)
	}

	trail := &evidenceTrail{
		storage: store,
		recorder: recorder.NewRecorder(store, &recorder.Config{
			BufferSize:   cfg.BufferSize,
			WriteTimeout: cfg.WriteTimeout,
		}, collector),
	}

	if cfg.Retention.Schedule != "" {
		trail.pruner = retention.NewPruner(store, &retention.Config{
			RetentionDays: cfg.Retention.Days,
			PruneSchedule: cfg.Retention.Schedule,
			MaxRecords:    cfg.Retention.MaxRecords,
		})
		if err := trail.pruner.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
			trail.pruner = nil
		} else if next := trail.pruner.NextPruning(); next != nil {
			slog.Debug("evidence retention scheduler started", "next_pruning", next)
		}
	}

	slog.Info("evidence trail enabled", "backend", cfg.Backend)
	return trail, nil
}

// Close flushes pending records and releases storage. The recorder is
// drained before the storage it writes to is closed.
func (t *evidenceTrail) Close() {
	if err := t.recorder.Close(); err != nil {
		slog.Error("evidence recorder close failed", "error", err)
	}
	if t.pruner != nil {
		t.pruner.Stop()
	}
	if err := t.storage.Close(); err != nil {
		slog.Error("evidence storage close failed", "error", err)
	}
}

// watchConfig applies hot-safe settings when the config file changes.
// Only the log level is applied live; other changes need a restart.
func watchConfig(ctx context.Context, logger *logging.Logger) {
	if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) {
		return
	}

	watcher, err := config.NewWatcher(cfgFile, logger.Logger)
	if err != nil {
		slog.Warn("config hot reload disabled", "error", err)
		return
	}

	err = watcher.Watch(ctx, func(cfg *config.Config) {
		level := cfg.Telemetry.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logger.SetLevel(level); err != nil {
			slog.Warn("ignoring reloaded log level", "level", level, "error", err)
			return
		}
		slog.Info("configuration reloaded", "log_level", level)
	})
	if err != nil {
		slog.Warn("config watcher stopped", "error", err)
	}
}
