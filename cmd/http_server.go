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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
	authPostgres "github.com/sgcalidad/plan-mejora/internal/auth/postgres"
	"github.com/sgcalidad/plan-mejora/internal/plan"
	planPostgres "github.com/sgcalidad/plan-mejora/internal/plan/postgres"
	"github.com/sgcalidad/plan-mejora/internal/reporte"
	reportePostgres "github.com/sgcalidad/plan-mejora/internal/reporte/postgres"
	"github.com/sgcalidad/plan-mejora/internal/seguimiento"
	seguimientoPostgres "github.com/sgcalidad/plan-mejora/internal/seguimiento/postgres"
	"github.com/sgcalidad/plan-mejora/internal/transport/rest"
	"github.com/sgcalidad/plan-mejora/internal/user"
	userPostgres "github.com/sgcalidad/plan-mejora/internal/user/postgres"
	"github.com/sgcalidad/plan-mejora/pkg/logger"
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
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "auth_disabled", deps.Config.Security.DisableAuth)

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

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the already-verified pgx connection pool.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	codec := auth.NewJWTTokenCodec(cfg.Security.JWTSecret, cfg.Security.TokenTTLHours)
	policy := auth.NewPolicy(cfg.Security.DisableAuth)

	authService := auth.NewService(authPostgres.NewRepository(gormDB), codec, cfg.Security.DisableAuth, cfg.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)

	planRepo := planPostgres.NewPlanRepository(gormDB)
	planService := plan.NewService(planRepo, policy, lg)
	planHandler := plan.NewHandler(planService)

	seguimientoService := seguimiento.NewService(seguimientoPostgres.NewSeguimientoRepository(gormDB), planRepo, policy, lg)
	seguimientoHandler := seguimiento.NewHandler(seguimientoService)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), authService, policy, lg)
	userHandler := user.NewHandler(userService)

	reporteService := reporte.NewService(reportePostgres.NewReporteRepository(gormDB), policy, lg)
	reporteHandler := reporte.NewHandler(reporteService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, planHandler, seguimientoHandler, userHandler, reporteHandler, lg)

	return &Dependencies{
		Config: cfg,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
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
