package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/haguru/tracker/config"
	"github.com/haguru/tracker/internal/auth"
	memoryExerciseRepo "github.com/haguru/tracker/internal/exerciserepo/memory"
	mongoExerciseRepo "github.com/haguru/tracker/internal/exerciserepo/mongo"
	postgresExerciseRepo "github.com/haguru/tracker/internal/exerciserepo/postgres"
	"github.com/haguru/tracker/internal/exerciseservice"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/middleware"
	"github.com/haguru/tracker/internal/models/dto"
	"github.com/haguru/tracker/internal/routes"
	"github.com/haguru/tracker/internal/server"
	memoryUserRepo "github.com/haguru/tracker/internal/userrepo/memory"
	mongoUserRepo "github.com/haguru/tracker/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/tracker/internal/userrepo/postgres"
	"github.com/haguru/tracker/internal/userservice"
	"github.com/haguru/tracker/pkg/databases/mongo"
	"github.com/haguru/tracker/pkg/databases/postgres"
	"github.com/haguru/tracker/pkg/metrics"
	"github.com/haguru/tracker/pkg/zerolog"
)

var (
	StartupTimeout  = 30 * time.Second
	ShutdownTimeout = 10 * time.Second
)

const (
	StartTimeSeconds     = "start_time_seconds"
	StartTimeSecondsHelp = "Unix time the service started"
)

// App represents the main application, containing server and configuration.
// It loads and validates the config once, then passes it explicitly to the
// token signer and storage clients.
type App struct {
	Server   interfaces.Server
	Config   *config.ServiceConfig
	Logger   interfaces.Logger
	Metrics  interfaces.Metrics
	dbClient interfaces.DBClient
}

// storage groups the repositories of one backend. dbClient is nil for the memory backend.
type storage struct {
	dbClient  interfaces.DBClient
	users     interfaces.UserRepository
	exercises interfaces.ExerciseRepository
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	if err := config.LoadEnvFile(config.ENV_PATH); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)

	validator, err := dto.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	if err := config.Validate(validator, cfg); err != nil {
		return nil, err
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: initializeMetrics(cfg.ServiceName),
	}

	signer, err := app.initializeSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), StartupTimeout)
	defer cancel()

	store, err := app.initializeStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.dbClient = store.dbClient

	tokens := auth.NewTokenService(signer, store.users, logger)
	userService := userservice.NewUserService(store.users, tokens, cfg.BcryptCost, logger)

	var txClient interfaces.DBClient
	if cfg.Database.Transactions && store.dbClient != nil {
		txClient = store.dbClient
	}
	exerciseService := exerciseservice.NewExerciseService(store.exercises, store.users, txClient, validator, logger)

	var health routes.HealthChecker
	if store.dbClient != nil {
		health = store.dbClient
	}
	route := routes.NewRoute(app.Metrics, userService, exerciseService, health, logger, validator)

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)
	app.Server.Use(
		middleware.Recovery(logger, app.Metrics),
		middleware.RequestLogger(logger),
		middleware.Authenticate(tokens, logger),
	)

	if err := route.Register(app.Server, app.wrapRoute()); err != nil {
		return nil, err
	}

	metricsHandler := promhttp.HandlerFor(
		app.Metrics.GetRegistry(),
		promhttp.HandlerOpts{Registry: app.Metrics.GetRegistry()})
	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)
	if err := app.Server.AddRoute(routes.MetricsRouteAPI, tracedMetricsHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add metrics route: %w", err)
	}

	return app, nil
}

// Run serves until SIGINT or SIGTERM, then drains requests and closes the store.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}
	if app.dbClient != nil {
		if err := app.dbClient.Disconnect(shutdownCtx); err != nil {
			serveErr = errors.Join(serveErr, fmt.Errorf("failed to disconnect database: %w", err))
		}
	}

	return serveErr
}

// wrapRoute returns the per-route decoration: rate limiting on signup and
// login, then metrics and tracing under the route pattern.
func (app *App) wrapRoute() func(pattern string, h http.Handler) http.Handler {
	rl := app.Config.RateLimit
	limited := map[string]bool{
		routes.SignupRouteAPI: true,
		routes.LoginRouteAPI:  true,
	}

	return func(pattern string, h http.Handler) http.Handler {
		if limited[pattern] {
			h = middleware.RateLimitMiddleware(middleware.NewLimiter(rl.RequestsPerSecond, rl.Burst), app.Metrics, pattern)(h)
		}
		h = middleware.Instrument(app.Metrics, pattern)(h)
		return otelhttp.NewHandler(h, pattern)
	}
}

func initializeMetrics(serviceName string) interfaces.Metrics {
	appMetrics := metrics.NewMetrics(serviceName)
	routes.RegisterMetrics(appMetrics)
	middleware.RegisterMetrics(appMetrics)

	appMetrics.RegisterGauge(StartTimeSeconds, StartTimeSecondsHelp)
	appMetrics.SetCurrentTimeGauge(StartTimeSeconds)

	return appMetrics
}

// initializeSigner prefers the ES256 key when a key path is configured and
// falls back to the HS256 secret.
func (app *App) initializeSigner() (*auth.Signer, error) {
	if app.Config.PrivateKeyPath != "" {
		privateKey, err := auth.LoadECDSAPrivateKey(app.Config.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		return auth.NewECDSASigner(privateKey, app.Config.TokenTTL)
	}
	return auth.NewHMACSigner([]byte(app.Config.TokenSecret), app.Config.TokenTTL)
}

func (app *App) initializeStorage(ctx context.Context) (*storage, error) {
	var store *storage
	var err error

	switch app.Config.Database.Type {
	case config.DatabaseTypeMongo:
		store, err = app.initializeMongo(ctx)
	case config.DatabaseTypePostgres:
		store, err = app.initializePostgres(ctx)
	case config.DatabaseTypeMemory:
		store = &storage{
			users:     memoryUserRepo.NewMemoryUserRepository(),
			exercises: memoryExerciseRepo.NewMemoryExerciseRepository(),
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := store.users.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure user indices: %w", err)
	}
	if err := store.exercises.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure exercise indices: %w", err)
	}

	app.Logger.Info("Storage ready", "type", app.Config.Database.Type, "transactions", app.Config.Database.Transactions)
	return store, nil
}

func (app *App) initializeMongo(ctx context.Context) (*storage, error) {
	dbClient, err := mongo.NewMongoDB(&app.Config.Database.MongoDB, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	if err := dbClient.Connect(ctx, app.Config.Database.MongoDB.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	users, err := mongoUserRepo.NewMongoUserRepository(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB user repository: %w", err)
	}
	exercises, err := mongoExerciseRepo.NewMongoExerciseRepository(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB exercise repository: %w", err)
	}

	return &storage{dbClient: dbClient, users: users, exercises: exercises}, nil
}

func (app *App) initializePostgres(ctx context.Context) (*storage, error) {
	dbClient := postgres.NewPostgresDatabaseClient(&app.Config.Database.Postgres, app.Logger)
	if err := dbClient.Connect(ctx, app.Config.Database.Postgres.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	users, err := postgresUserRepo.NewPostgresUserRepository(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL user repository: %w", err)
	}
	exercises, err := postgresExerciseRepo.NewPostgresExerciseRepository(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL exercise repository: %w", err)
	}

	return &storage{dbClient: dbClient, users: users, exercises: exercises}, nil
}
