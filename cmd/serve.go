package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smart-wallet/pkg/server"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the wallet HTTP API used by the browser UI.

The port comes from --port, PORT, SMART_WALLET_PORT or the config file (default 5000).

Examples:
  smart-wallet serve
  smart-wallet serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	port := cfg.Port
	if servePort != "" {
		port = servePort
	}

	srv := server.NewServer(port, server.Deps{
		Assistant:      svc.assistant,
		Pricer:         svc.pricer,
		Quoter:         svc.quoter,
		Bridge:         svc.bridge,
		Executor:       svc.executor,
		History:        svc.history,
		Metrics:        svc.metrics,
		Gatherer:       svc.registry,
		Logger:         logger.Named("server"),
		DefaultBalance: cfg.DefaultUserBalance,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("Smart wallet server started",
		zap.String("addr", srv.Addr()),
		zap.Bool("llm", svc.assistant.UsesLLM()),
		zap.Bool("rpc", svc.bridge.HasProvider()),
		zap.String("history", svc.history.GetFilePath()))
	color.Green("\n✓ Listening on http://localhost:%s", port)
	fmt.Printf("  Health check: http://localhost:%s/health\n\n", port)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	color.Yellow("\nServer stopped.")
	return nil
}
