package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdictlab/verdict/internal/api"
	"github.com/verdictlab/verdict/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API server exposing the analysis pipeline.

Endpoints:
  GET  /health
  POST /api/analyze/{ticker}
  GET  /api/decisions
  GET  /api/decisions/{ticker}

Example:
  go run ./cmd/verdict api
  go run ./cmd/verdict api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "port to listen on (overrides PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	log := rt.log

	// Override port if flag is set
	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("Initializing API server")

	store := handlers.NewDecisionStore()
	analyzeHandler := handlers.NewAnalyzeHandler(rt.orch, store, rt.cfg.SnapshotYears, log)

	router := api.NewRouter(analyzeHandler, log)
	server := api.New(rt.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/analyze/{ticker}")
	fmt.Println("  GET  /api/decisions")
	fmt.Println("  GET  /api/decisions/{ticker}")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
