package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/internal/board/auth"
	"github.com/goliatone/go-formguard/internal/board/config"
	"github.com/goliatone/go-formguard/internal/board/store"
	"github.com/goliatone/go-formguard/internal/board/web"
	"github.com/goliatone/go-formguard/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.MustBuild("info", "dev").Fatal("load config", zap.Error(err))
	}

	logger := logging.MustBuild(cfg.Log.Level, cfg.Log.Env)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrapAdmin(ctx, cfg, st, logger); err != nil {
		return err
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		logger.Warn("auth.secret not set, sessions will not survive restarts")
		secret = randomSecret()
	}
	sessions, err := auth.NewSessions(secret, cfg.Auth.TokenTTL,
		auth.WithSecureCookies(cfg.Auth.CookieSecure))
	if err != nil {
		return err
	}

	srv, err := web.New(ctx, logger, st, sessions)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// bootstrapAdmin creates the configured administrator account when it does
// not exist yet.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, st *store.Store, logger *zap.Logger) error {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		return nil
	}
	if _, err := st.UserByUsername(ctx, cfg.Admin.Username); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	if _, err := st.CreateUser(ctx, cfg.Admin.Username, hash, true); err != nil {
		return err
	}
	logger.Info("bootstrapped admin account", zap.String("username", cfg.Admin.Username))
	return nil
}
