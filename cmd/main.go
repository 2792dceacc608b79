package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/apiclient/authsvc"
	"github.com/filedeck/filedeck/apiclient/filesvc"
	"github.com/filedeck/filedeck/config"
	"github.com/filedeck/filedeck/gateway"
	"github.com/filedeck/filedeck/session"
	"github.com/filedeck/filedeck/ui"
)

var rootCmd = &cobra.Command{
	Use:   "filedeck",
	Short: "FileDeck - terminal front end for the file dashboard services",
	Long: `FileDeck is the terminal front end for a small multi-service file
dashboard: login, per-user file management, and admin user management,
plus a UI gateway that fronts the backing services.`,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal UI",
	RunE:  runTUI,
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the UI gateway",
	Long:  "Start the UI gateway: static pages, service proxies, health and metrics endpoints",
	RunE:  runGateway,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the FileDeck configuration and display the loaded settings",
	RunE:  validateConfig,
}

var configFilePath string

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")

	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tuiCmd, gatewayCmd, configCmd)

	// If no command specified, default to the TUI
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "tui")
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// runTUI wires the session store, resource clients, and page controllers,
// then hands control to the terminal program.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The TUI owns the terminal; logs go to a file when requested,
	// nowhere otherwise.
	logger := zap.NewNop()
	if path := os.Getenv("FILEDECK_DEBUG_LOG"); path != "" {
		zcfg := zap.NewProductionConfig()
		zcfg.OutputPaths = []string{path}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	// The session store's lifecycle is owned here, not by any global.
	store := session.NewStore()
	httpClient := apiclient.NewHTTPClient(cfg.Services.RequestTimeout)

	authClient := authsvc.NewClient(cfg.Services.AuthURL, store, httpClient, logger)

	scheme := apiclient.SchemeBearer
	if cfg.Services.FileScheme == "identity" {
		scheme = apiclient.SchemeIdentity
	}
	fileClient := filesvc.NewClient(cfg.Services.FileURL, store, scheme, httpClient, logger)

	app := ui.NewApp(store, authClient, fileClient, cfg.Download.Dir, logger)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// runGateway starts the UI gateway server
func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
		}
	}()

	logger.Info("Starting FileDeck gateway",
		zap.String("listen_addr", cfg.Gateway.ListenAddr),
		zap.String("auth_url", cfg.Services.AuthURL),
		zap.String("file_url", cfg.Services.FileURL))

	router, err := gateway.NewRouter(&cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Gateway.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.Gateway.ReadTimeout,
		WriteTimeout: cfg.Gateway.WriteTimeout,
		IdleTimeout:  cfg.Gateway.IdleTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.Gateway.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Gateway exited gracefully")
	return nil
}

// validateConfig validates the FileDeck configuration and displays settings
func validateConfig(cmd *cobra.Command, args []string) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("Auth Service URL: %s\n", cfg.Services.AuthURL)
	fmt.Printf("File Service URL: %s\n", cfg.Services.FileURL)
	fmt.Printf("File Service Scheme: %s\n", cfg.Services.FileScheme)
	fmt.Printf("Gateway Listen Address: %s\n", cfg.Gateway.ListenAddr)
	fmt.Printf("Download Directory: %s\n", cfg.Download.Dir)
	fmt.Printf("Log Level: %s\n", cfg.Log.Level)

	return nil
}

// initializeLogger creates a zap logger based on configuration
func initializeLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	var cfg zap.Config

	if logCfg.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logCfg.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}
