package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/banachtech/phoenix/api"
	"github.com/banachtech/phoenix/config"
	"github.com/banachtech/phoenix/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cfg.Logging)
		slog.SetDefault(logger)

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		var st store.Store
		if cfg.Database.URL != "" {
			pg, err := store.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pg.Close()
			st = pg
			slog.Info("connected to PostgreSQL")
		} else {
			slog.Warn("database.url not set, using in-memory store (data will not persist)")
			st = store.NewMemoryStore()
		}

		server := api.NewServer(st, *cfg)
		srv := &http.Server{
			Addr:         addr,
			Handler:      server.Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("phoenix listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// Graceful shutdown.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			slog.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("phoenix stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: config server.addr)")
}

func newLogger(lc config.Logging) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(lc.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
