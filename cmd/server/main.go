package main

import (
	"context"
	"drivesafe-service/internal/adapters/notifier"
	"drivesafe-service/internal/adapters/sms"
	"drivesafe-service/internal/api"
	"drivesafe-service/internal/app"
	"drivesafe-service/internal/config"
	"drivesafe-service/internal/ports"
	"drivesafe-service/internal/services"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (catalog store, geocoder, Twilio) behind ports
// and serves the relay and help API until SIGINT/SIGTERM.
func main() {
	if err := run(); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	zap.L().Info("config loaded", cfg.LogFields()...)

	if err := cfg.RequireSMSCredentials(); err != nil {
		return eris.Wrap(err, "refusing to start")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	sender, err := sms.NewTwilioSender(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From)
	if err != nil {
		return err
	}

	// /help dispatches in-process; it needs a responder number to text.
	var dispatch ports.Notifier
	if cfg.Notify.To != "" {
		d, err := notifier.NewDirect(sender, cfg.Notify.To)
		if err != nil {
			return err
		}
		dispatch = d
	} else {
		zap.L().Warn("NOTIFY_TO not set; POST /help is disabled")
	}

	router := api.NewRouter(api.RouterDeps{
		Directory: env.Directory,
		Sender:    sender,
		Help: services.HelpDeps{
			Locator:   env.Locator,
			Directory: env.Directory,
			Notifier:  dispatch,
		},
		CORSOrigins:   cfg.Server.CORSOrigins,
		SMSRatePerMin: cfg.Server.SMSRatePerMin,
	})

	// Write timeout covers a cold geocode plus SMS retries on /help.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
