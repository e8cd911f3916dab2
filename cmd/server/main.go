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

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"neurochat/docs"
	"neurochat/internal/auth"
	"neurochat/internal/cache"
	"neurochat/internal/codec"
	"neurochat/internal/config"
	"neurochat/internal/credentials"
	"neurochat/internal/db"
	"neurochat/internal/handler"
	"neurochat/internal/llm"
	"neurochat/internal/logger"
	"neurochat/internal/metrics"
	"neurochat/internal/repository"
	"neurochat/internal/responder"
	"neurochat/internal/router"
	"neurochat/internal/service"
	"neurochat/internal/session"
	"neurochat/internal/web"
)

var resetDB bool

var rootCmd = &cobra.Command{
	Use:   "neurochat",
	Short: "Neurochat web server",
	Long:  `Neurochat serves the guest and account chat UI and its JSON API.`,
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a new ENCRYPTION_KEY",
	Long:  `Generate a random message encryption key in the compact URL-safe form accepted by ENCRYPTION_KEY.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := codec.NewKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeKeyCompact(key))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&resetDB, "reset", false, "drop the users table before migrating")
	rootCmd.AddCommand(serveCmd, migrateCmd, keygenCmd)
}

// @title Neurochat API
// @version 1.0
// @description Guest and account chat sessions with listen and talk modes.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, os.Stderr)
	return cfg, nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}

	if resetDB {
		logger.Warn("--reset given, dropping tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Warn("drop tables failed (may not exist)", "err", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info("database schema up to date")
	return nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, sessions will not persist", "addr", cfg.RedisAddr, "err", err)
	}

	msgCodec, err := codec.FromConfig(cfg.EncryptionKey)
	if err != nil {
		return fmt.Errorf("message codec: %w", err)
	}

	provider, err := llm.New(cfg.LLMProvider, llm.Options{})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	if n, err := userRepo.Count(context.Background()); err == nil {
		logger.Info("database ready", "users", n)
	}

	// Sessions
	jwtService := auth.NewJWTService(cfg.SecretKey)
	sessions := session.NewManager(session.NewRedisStore(cacheClient, cfg.SessionTTL), jwtService)

	// Services
	generator := responder.New(provider, credentials.Default(cfg, cfg.EnvFile), responder.Options{
		Model:   cfg.LLMModel,
		Timeout: cfg.CompletionTimeout,
		Metrics: collector,
	})
	authService := service.NewAuthService(userRepo, collector)
	userService := service.NewUserService(userRepo, cacheClient)
	chatService := service.NewChatService(msgCodec, generator, collector)

	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	router.Register(
		e,
		cfg,
		sessions,
		jwtService,
		reg,
		handler.NewAuthHandler(authService, sessions),
		handler.NewUserHandler(userService),
		handler.NewChatHandler(chatService),
	)

	logger.Info("starting server",
		"port", cfg.ServerPort,
		"env", cfg.Env,
		"llm_provider", provider.Name(),
		"swagger", fmt.Sprintf("http://%s/swagger/index.html", docs.SwaggerInfo.Host),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
