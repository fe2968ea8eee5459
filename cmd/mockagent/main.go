package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"

	"github.com/fina-agent/fina-console/internal/auth"
	"github.com/fina-agent/fina-console/internal/config"
	"github.com/fina-agent/fina-console/internal/handler"
	"github.com/fina-agent/fina-console/internal/infrastructure/memory"
	"github.com/fina-agent/fina-console/internal/metrics"
	"github.com/fina-agent/fina-console/internal/router"
	"github.com/fina-agent/fina-console/internal/simulator"
	"github.com/fina-agent/fina-console/pkg/logger"
)

var (
	cfgFile   string
	tokenUser string
	tokenTTL  time.Duration
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "mockagent",
	Short: "Simulated FINA agent backend",
	Long: `mockagent serves the FINA agent API (chat stream, approvals, ingestion, audit)
backed by an in-memory simulation of the agent graph. It is meant for local development
of finactl and for end-to-end tests.`,
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServer,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	RunE:  runToken,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (default ./configs/config.yaml)")

	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "user id carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default jwt.token_ttl)")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ttl := tokenTTL
	if ttl == 0 {
		ttl = cfg.JWT.TokenTTL
	}
	token, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer).Issue(tokenUser, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize logger (also routes hertz logs into slog)
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("mockagent starting...",
		"version", version,
		"config", cfgFile,
	)

	var recorder *metrics.Recorder
	if cfg.Observability.EnableMetrics {
		recorder = metrics.NewRecorder()
	}

	engine, err := simulator.NewEngine(
		cfg.Agent,
		memory.NewThreadRepository(),
		memory.NewDocumentRepository(),
		recorder,
		slog.Default(),
	)
	if err != nil {
		slog.Error("failed to create agent simulator", "error", err)
		os.Exit(1)
	}

	chatHandler := handler.NewChatHandler(engine, slog.Default())
	approvalHandler := handler.NewApprovalHandler(engine, slog.Default())
	knowledgeHandler := handler.NewKnowledgeHandler(engine, slog.Default())
	healthHandler := handler.NewHealthHandler(engine)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize),
		server.WithExitWaitTime(5*time.Second),
	)

	router.Setup(h, cfg.Server.AllowedOrigins, tokens, chatHandler, approvalHandler, knowledgeHandler, healthHandler)

	var metricsServer *http.Server
	if recorder != nil {
		metricsServer = &http.Server{
			Addr:              cfg.GetMetricsAddr(),
			Handler:           recorder.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("metrics server started", "address", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	// Graceful shutdown
	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
