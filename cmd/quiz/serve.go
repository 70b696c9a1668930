package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mainframequiz"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides config)")
	return cmd
}

func runServe(ctx context.Context, portFlag string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if portFlag != "" {
		cfg.ListenPort = portFlag
	}

	var provider mainframequiz.Provider
	if cfg.OpenAIAPIKey != "" {
		p, err := mainframequiz.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model)
		if err != nil {
			return err
		}
		provider = p
	}

	storage, err := mainframequiz.NewResultStorage(cfg.ResultsDir)
	if err != nil {
		return err
	}

	db, err := mainframequiz.OpenResultDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.CreateTables(); err != nil {
		return err
	}

	srv, err := newServer(cfg, provider, storage, db)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.ListenPort,
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		mainframequiz.Logger().Info("starting quiz web server", zap.String("port", cfg.ListenPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainframequiz.Logger().Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		mainframequiz.Logger().Info("shutting down server")
	case <-ctx.Done():
		mainframequiz.Logger().Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
