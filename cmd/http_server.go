package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashbook/internal"
	"cashbook/internal/auth"
	authRepo "cashbook/internal/auth/postgres"
	"cashbook/internal/category"
	categoryRepo "cashbook/internal/category/postgres"
	"cashbook/internal/recognition"
	"cashbook/internal/recognition/openrouter"
	"cashbook/internal/stats"
	"cashbook/internal/transaction"
	transactionRepo "cashbook/internal/transaction/postgres"
	"cashbook/internal/transport/rest"
	"cashbook/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	ORM    *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config

	authService := auth.NewService(
		authRepo.NewRepository(deps.ORM),
		cfg.Auth.BCryptCost,
		cfg.Auth.SessionTTL,
		deps.Logger,
	)
	authHandler := auth.NewHandler(authService)

	transactionService := transaction.NewService(
		transactionRepo.NewTransactionRepository(deps.ORM),
		deps.Logger,
	)
	transactionHandler := transaction.NewHandler(transactionService)

	categoryService := category.NewService(
		categoryRepo.NewCategoryRepository(deps.ORM),
		transactionService,
		deps.Logger,
	)
	categoryHandler := category.NewHandler(categoryService)

	statsHandler := stats.NewHandler(transactionService, categoryService)

	completer := openrouter.NewClient(openrouter.Config{
		BaseURL:  cfg.Recognition.BaseURL,
		Referer:  cfg.Recognition.Referer,
		AppTitle: cfg.Recognition.AppTitle,
		Timeout:  cfg.Recognition.Timeout,
	})
	recognitionService := recognition.NewService(
		completer,
		categoryService,
		cfg.Recognition.APIKey,
		cfg.Recognition.Model,
		deps.Logger,
	)
	recognitionHandler := recognition.NewHandler(recognitionService)

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		cfg.Server.AllowedOrigins,
		authHandler,
		transactionHandler,
		categoryHandler,
		statsHandler,
		recognitionHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the pgx stdlib pool so there is a single pool to size.
	orm, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		ORM:    orm,
		Router: chi.NewRouter(),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
