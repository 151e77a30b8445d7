package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	httphandler "github.com/socialpilot/socialpilot/internal/adapter/driving/http"
	"github.com/socialpilot/socialpilot/internal/application"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the publishing daemon with the scheduler and REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("config loaded",
		"listen_addr", a.cfg.ListenAddr,
		"db_path", a.cfg.DBPath,
		"post_interval", a.cfg.PostInterval,
		"cooldown", a.cfg.Cooldown,
		"workers", a.cfg.Workers,
	)

	// One daemon per lock file. A second instance would double-post.
	lock := flock.New(a.cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another socialpilot instance is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Error("error releasing lock", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postSvc, err := a.postService()
	if err != nil {
		return err
	}

	scheduler := application.NewScheduler(
		postSvc.RunOnce,
		a.cfg.PostInterval,
		a.cfg.InitialDelay,
		a.cfg.Workers,
	)
	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Start(ctx)
		close(schedulerDone)
	}()

	apiHandler := httphandler.NewHandler(a.tokens, a.publisher, a.cfg.AccountKey, slog.Default())
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(apiHandler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", a.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("socialpilot started",
		"account", a.cfg.AccountKey,
		"post_interval", a.cfg.PostInterval,
	)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	<-schedulerDone

	slog.Info("shutdown complete")
	return nil
}
