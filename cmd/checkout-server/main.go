package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/checkout-core/internal/cache"
	"github.com/jcmexdev/checkout-core/internal/catalog"
	"github.com/jcmexdev/checkout-core/internal/config"
	"github.com/jcmexdev/checkout-core/internal/httpx"
	"github.com/jcmexdev/checkout-core/internal/mailer"
	"github.com/jcmexdev/checkout-core/internal/orders"
	"github.com/jcmexdev/checkout-core/internal/paycrypt"
	"github.com/jcmexdev/checkout-core/internal/payments"
	sagalogsqlite "github.com/jcmexdev/checkout-core/internal/saga/sagalog/sqlite"
	"github.com/jcmexdev/checkout-core/internal/storage"
	"github.com/jcmexdev/checkout-core/internal/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.SetupTracer(ctx, "checkout-server")
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	privateKey, err := paycrypt.ParsePrivateKey([]byte(cfg.PrivateKeyPEM))
	if err != nil {
		slog.Error("failed to load private key", "error", err)
		os.Exit(1)
	}
	publicPEM := cfg.PublicKeyPEM
	if publicPEM == "" {
		if publicPEM, err = paycrypt.MarshalPublicKey(&privateKey.PublicKey); err != nil {
			slog.Error("failed to derive public key", "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open order store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sagaLog, err := sagalogsqlite.Open(cfg.SagaLogPath)
	if err != nil {
		slog.Error("failed to open saga log", "path", cfg.SagaLogPath, "error", err)
		os.Exit(1)
	}
	defer sagaLog.Close()

	var readCache cache.Cache = cache.NoOp{}
	if cfg.RedisAddr != "" {
		readCache = cache.NewRedisCache(cfg.RedisAddr, "checkout")
	}

	lookup := catalog.New(store, readCache)
	dispatcher := mailer.NewSMTPDispatcher(mailer.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	})

	svc := orders.NewService(store, lookup, payments.NewSimulator(), dispatcher, sagaLog)

	handler := httpx.NewHandler(svc, lookup, privateKey, publicPEM)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("checkout server running", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
