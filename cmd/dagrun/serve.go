package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/petrijr/dagrun/internal/config"
	"github.com/petrijr/dagrun/internal/engine"
	"github.com/petrijr/dagrun/pkg/jobs"
	"github.com/petrijr/dagrun/pkg/rest"
	"github.com/petrijr/dagrun/pkg/scheduler"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dagrun",
	Short: "dagrun is a persisted task-graph execution engine",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	eng, err := engine.NewSQLiteEngine(db)
	if err != nil {
		return err
	}
	if err := jobs.RegisterAll(eng, cfg.Jobs.NotifyFailureRate); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(eng, scheduler.Config{
		PollInterval: cfg.Scheduler.PollInterval,
		Logger:       logger,
	})
	go func() {
		_ = sched.Run(ctx)
	}()

	server := rest.NewServer(eng, &rest.Config{
		Address:      cfg.HTTP.Address,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = server.Shutdown()
	}()

	logger.Info("dagrun serving",
		slog.String("address", cfg.HTTP.Address),
		slog.String("database", cfg.Database.Path),
	)
	return server.Listen()
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
