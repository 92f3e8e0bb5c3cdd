package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"zdm_server_go/auth"
	"zdm_server_go/config"
	"zdm_server_go/controllers"
	"zdm_server_go/data"
	"zdm_server_go/logger"
	"zdm_server_go/services"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zdm-server",
	Short: "ZDM backup console server",
	Long: `zdm-server - schedule registry and worker bridge for the ZDM backup console.

Configuration sources (in increasing precedence):
  1. Default values
  2. Config file (./zdm.toml or --config)
  3. Environment variables (ZDM_* prefix, e.g. ZDM_SERVER_PORT)

Examples:
  zdm-server serve                       # Start the HTTP API
  zdm-server migrate                     # Create or update the schema
  zdm-server user add --email ops@example.com --password ...
  zdm-server job complete 1234 --result SUCCESS`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./zdm.toml when present)")
	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd, centerCmd, jobCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app содержит все, что собирается из одной конфигурации.
type app struct {
	db        *sqlx.DB
	stores    *data.Stores
	tokens    *auth.TokenService
	catalog   *services.CatalogService
	schedules *services.ScheduleService
	licenses  *services.LicenseService
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := data.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	stores := data.NewStores(db)
	resolver := services.NewResolver(stores)
	ids := data.NewIDAllocator(data.RandomIDSource(), cfg.IDs.MaxAttempts)
	poller := services.NewPoller(stores.Jobs, ids)

	return &app{
		db:        db,
		stores:    stores,
		tokens:    auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer),
		catalog:   services.NewCatalogService(stores, resolver),
		schedules: services.NewScheduleService(stores, resolver, ids),
		licenses: services.NewLicenseService(stores, resolver, poller, services.PollOptions{
			Timeout:  cfg.Poller.Timeout,
			Interval: cfg.Poller.LicenseInterval,
		}),
	}, nil
}

func (a *app) Close() error { return a.db.Close() }

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	router := controllers.NewRouter(controllers.Deps{
		DB:                a.db,
		Stores:            a.stores,
		Tokens:            a.tokens,
		Catalog:           a.catalog,
		Schedules:         a.schedules,
		Licenses:          a.licenses,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	// Запросы лицензий ждут до poller.timeout, поэтому таймаут записи
	// оставляет для этого запас.
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Poller.Timeout + 30*time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Infow("Запуск сервера", "addr", srv.Addr, "database", cfg.Database.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Infow("Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
