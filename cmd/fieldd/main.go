package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/danielpatrickdp/decision-field/internal/api"
	"github.com/danielpatrickdp/decision-field/internal/auth"
	"github.com/danielpatrickdp/decision-field/internal/codec"
	"github.com/danielpatrickdp/decision-field/internal/config"
	"github.com/danielpatrickdp/decision-field/internal/engine"
	"github.com/danielpatrickdp/decision-field/internal/logging"
	"github.com/danielpatrickdp/decision-field/internal/orchestrator"
	"github.com/danielpatrickdp/decision-field/internal/store"
	"github.com/danielpatrickdp/decision-field/internal/telemetry"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger, err := logging.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fieldd exited", "error", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, "fieldd")
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	vocab, err := engine.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}
	local, err := orchestrator.NewLocalEngine(vocab)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	var eng orchestrator.Engine = local
	if cfg.EngineAddr != "" {
		client, err := codec.NewClient(cfg.EngineAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		eng = client
	}

	orch := orchestrator.New(st, eng, orchestrator.Config{
		AnalyzeDelay:  cfg.AnalyzeDelay,
		CollapseDelay: cfg.CollapseDelay,
	}, logger)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := api.NewIPRateLimiter(float64(cfg.AuthRPS), cfg.AuthBurst)
	go limiter.RunPruner(ctx, time.Minute, 3*time.Minute)

	srv := api.NewServer(orch, auth.NewService(st, issuer), issuer, st, limiter, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
		}
		grpcServer = grpc.NewServer()
		codec.RegisterEngineServer(grpcServer, codec.NewServer(local, logger))
		go func() {
			logger.Info("engine grpc listening", "addr", cfg.GRPCAddr)
			errCh <- grpcServer.Serve(lis)
		}()
	}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr, "engine", eng.Name(), "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return httpServer.Shutdown(sctx)
}

// #endregion run
