package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"upload-server/config"
	_ "upload-server/docs"
	"upload-server/internal/application/ports"
	"upload-server/internal/application/services"
	domain "upload-server/internal/domain/upload"
	"upload-server/internal/infrastructure/db/postgres"
	uploadDB "upload-server/internal/infrastructure/db/postgres/upload"
	"upload-server/internal/infrastructure/metrics"
	"upload-server/internal/infrastructure/mq"
	"upload-server/internal/infrastructure/storage"
	"upload-server/internal/interface/api/rest"
	"upload-server/internal/interface/api/rest/middleware"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	logger    *zap.Logger
	cfg       config.Config
	db        *pgxpool.Pool
	storage   ports.Storage
	httpSrv   *http.Server
	router    *gin.Engine
	mCounter  *prometheus.CounterVec
	mDuration *prometheus.HistogramVec
	mq        ports.RabbitMQ
	events    ports.EventEmitter
}

// NewLogger builds the production logger shared by every command.
func NewLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("cannot initialize zap logger: %w", err)
	}
	return logger, nil
}

// LoadConfig reads .env when present; the process environment always wins.
func LoadConfig(logger *zap.Logger) config.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Debug(".env not loaded, using process environment", zap.Error(err))
	}
	return config.Load()
}

func NewApp(ctx context.Context, logger *zap.Logger, cfg config.Config) (*App, error) {
	if err := cfg.ValidateExport(); err != nil {
		return nil, err
	}

	// metrics
	mCounter := metrics.NewCounter()
	mDuration := metrics.NewExportDuration()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr: cfg.App.Host + ":" + cfg.App.Port,
		Handler: cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		})(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a := &App{
		logger:    logger,
		cfg:       cfg,
		httpSrv:   httpSrv,
		router:    r,
		mCounter:  mCounter,
		mDuration: mDuration,
		events:    mq.Discard{},
	}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	// db
	dbDsn, err := a.cfg.DBDSN()
	if err != nil {
		return fmt.Errorf("DB config error: %w", err)
	}
	a.db, err = postgres.New(ctx, a.logger, dbDsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// storage
	a.storage, err = newStorage(ctx, a.logger, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	// rabbitMQ
	if !a.cfg.EventsEnabled() {
		a.logger.Info("RABBITMQ_HOST not set, domain events disabled")
		return nil
	}
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("failed init rabbitMQ: %w", err)
	}
	a.events = rbMQ

	return nil
}

func newStorage(ctx context.Context, logger *zap.Logger, cfg config.Config) (*storage.Sink, error) {
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}

	var (
		backend storage.Backend
		err     error
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMinio:
		backend, err = storage.NewMinioBackend(ctx, logger, cfg.Storage)
	default:
		backend, err = storage.NewS3Backend(logger, cfg.Storage)
	}
	if err != nil {
		return nil, err
	}

	return storage.NewSink(logger, backend, cfg.Storage.PublicURL)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run serves HTTP and publishes domain events until ctx is cancelled or the
// process receives SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	uploadService, exportService := a.services()

	// controllers
	rest.NewUploadController(a.router, uploadService, exportService, a.logger)
	rest.NewHealthController(a.router, a.db, a.logger)

	// ops
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
	a.router.GET(rest.RouteDocs, gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/docs/doc.json"))))
}

func (a *App) services() (ports.UploadService, ports.ExportService) {
	uploadRepo := uploadDB.NewRepository(a.db)

	uploadService := services.NewUploadService(a.logger, a.storage, uploadRepo, a.events, a.mCounter)
	exportService := services.NewExportService(
		a.logger,
		a.storage,
		uploadRepo,
		a.events,
		a.mCounter,
		a.mDuration,
		a.cfg.Export.BatchSize,
	)

	return uploadService, exportService
}

// Export runs the export pipeline once outside of HTTP and returns the report
// URL.
func (a *App) Export(ctx context.Context, searchQuery string) (string, error) {
	_, exportService := a.services()

	report, err := exportService.ExportUploads(ctx, domain.Filter{SearchQuery: searchQuery})
	if err != nil {
		return "", err
	}
	return report.URL, nil
}

func (a *App) Logger() *zap.Logger { return a.logger }
