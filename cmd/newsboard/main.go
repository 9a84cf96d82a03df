package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsboard/internal/config"
	"newsboard/internal/db"
	"newsboard/internal/fetcher"
	"newsboard/internal/logger"
	"newsboard/internal/server"
	"newsboard/internal/service"
	"newsboard/internal/worker"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string
	migrateOn  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "newsboard",
		Short:         "Newsboard - news and comments API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file (env vars override it)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the feed poller",
		RunE:  runServe,
	}
	serveCmd.Flags().BoolVar(&migrateOn, "migrate", false, "apply schema migrations before serving")

	rootCmd.AddCommand(
		serveCmd,
		migrateCmd(),
		newsCmd(),
		commentsCmd(),
		importCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "newsboard %s (commit: %s)\n", version, commit)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}

// bootstrap загружает конфигурацию, настраивает логгер и открывает пул соединений.
func bootstrap(ctx context.Context) (*config.Config, *db.Database, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config load error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("logger init error: %w", err)
	}

	database, err := db.NewDB(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("DB connection error: %w", err)
	}
	return cfg, database, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, database, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer database.Close()
	defer logger.Log.Info("Application stopped")

	if migrateOn {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	newsSvc := service.NewNewsService(database)
	commentSvc := service.NewCommentService(database)

	// Периодический импорт лент
	if len(cfg.Feeds.URLs) > 0 {
		wrk := worker.NewWorker(newsSvc)
		go func() {
			if err := fetcher.StartPolling(ctx, wrk.Handle, cfg.Feeds.URLs, cfg.Feeds.Schedule); err != nil {
				logger.Log.Errorf("Poller error: %v", err)
			}
		}()
	}

	srv := server.NewServer(database, newsSvc, commentSvc)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Log.Info("Shutting down...")
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
