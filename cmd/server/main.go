package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/me/schedq/internal/config"
	"github.com/me/schedq/internal/logging"
	"github.com/me/schedq/internal/scheduler"
	"github.com/me/schedq/internal/server"
	"github.com/me/schedq/internal/store"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	flagAddr := flag.String("addr", "", "Listen address (overrides config)")
	flagLogLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flagLogFormat := flag.String("log-format", "", "Log format (text, json)")
	flagDB := flag.String("db", "", "Archive database path (default ~/.schedq/schedq.db, \"off\" to disable)")
	flagQuantum := flag.Int64("quantum", 0, "Logical ticks per dispatch turn (overrides config)")
	flagTickMS := flag.Int("tick-ms", -1, "Wall milliseconds per logical tick, 0 for free-running")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	cfg := config.DefaultServerConfig()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags win over the config file.
	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if *flagLogFormat != "" {
		cfg.LogFormat = *flagLogFormat
	}
	if *flagDB != "" {
		cfg.DBPath = *flagDB
	}
	if *flagQuantum > 0 {
		cfg.Quantum = *flagQuantum
	}
	if *flagTickMS >= 0 {
		cfg.TickMS = *flagTickMS
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	eng := scheduler.New(cfg.SchedulerConfig(), logger)

	serverOpts := []server.Option{}

	// Open the task archive unless disabled.
	var rec *store.Recorder
	if cfg.DBPath != "off" {
		dbPath := cfg.DBPath
		if dbPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "cannot determine home directory: %v\n", err)
				os.Exit(1)
			}
			dir := filepath.Join(home, ".schedq")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
				os.Exit(1)
			}
			dbPath = filepath.Join(dir, "schedq.db")
		}

		st, err := store.NewSQLiteStore(dbPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open database: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		if err := st.Migrate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
			os.Exit(1)
		}
		logger.Info("archive ready", "path", dbPath)

		rec = store.NewRecorder(st, eng.Events(), logger)
		serverOpts = append(serverOpts, server.WithArchive(st))
	}

	srv := server.New(cfg, eng, logger, serverOpts...)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start dispatcher and archive recorder in the background.
	go func() {
		if err := eng.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("dispatcher failed", "error", err)
		}
	}()
	if rec != nil {
		go rec.Run(ctx)
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if rec != nil {
		<-rec.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
