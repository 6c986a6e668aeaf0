// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/logger"
	"github.com/danielhkuo/votedesk/notify"
	"github.com/danielhkuo/votedesk/router"
	"github.com/danielhkuo/votedesk/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg cliparse.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.CreateSchema(ctx, dbConn, cfg.DatabaseType); err != nil {
		return err
	}
	log.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	st := store.New(dbConn)

	created, err := st.Users.EnsureAdmin(ctx, store.NewUser{
		Identity:  cfg.Admin.Identity,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
		Email:     cfg.Admin.Email,
	}, cfg.Admin.Password)
	if errors.Is(err, store.ErrNoAdminSeed) {
		return fmt.Errorf("%w: set ADMIN_IDENTITY and ADMIN_PASSWORD", err)
	}
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if created {
		log.Info("admin account created", zap.String("identity", cfg.Admin.Identity))
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	notifier := notify.New(cfg.SMTP, log)
	if !cfg.SMTP.Enabled() {
		log.Warn("SMTP_HOST not set, generated credentials will not be emailed")
	}

	server := http.Server{
		Handler:           router.NewRouter(ctx, st, issuer, notifier, log, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       time.Minute,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctrlc
		log.Info("shutting down")
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			server.Close()
		}
	}()

	log.Info("listening", zap.Int("port", cfg.Port))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Wait for in-flight requests before closing the database
	<-shutdownDone
	log.Info("server closed")
	return nil
}
