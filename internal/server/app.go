// Package server assembles the TripTales server: configuration, database,
// services, the JSON API, the gRPC health endpoint and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/config"
	"github.com/dmitrijs2005/triptales/internal/server/geo"
	"github.com/dmitrijs2005/triptales/internal/server/httpapi"
	"github.com/dmitrijs2005/triptales/internal/server/metrics"
	"github.com/dmitrijs2005/triptales/internal/server/proof"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/triptales/internal/server/services"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/triptales/internal/server/grpc"
)

const (
	shutdownTimeout      = 10 * time.Second
	limiterCleanupPeriod = 5 * time.Minute
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
	limiter *httpapi.LoginLimiter
}

// openDB is a seam for tests.
var openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	photos, err := storage.New(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("photo storage init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager(), photos, prometheus.NewRegistry())
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB,
	rm repomanager.RepositoryManager, photos storage.PhotoStore, reg *prometheus.Registry) (*App, error) {

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc := metrics.NewCollector(reg)

	tokens := auth.NewTokenCodec(c.SecretKey, c.TokenTTL)
	verifier := proof.NewVerifier(geo.NewDefaultGazetteer(), c.ProofRadiusKm)

	us := services.NewUserService(db, rm, tokens, mc, logger)
	is := services.NewItineraryService(db, rm, c, verifier, photos, mc, logger)
	rs := services.NewReviewService(db, rm, logger)

	if err := us.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("admin bootstrap error: %w", err)
	}

	limiter := httpapi.NewLoginLimiter(c.LoginRatePerMin)
	handler := httpapi.NewRouter(&httpapi.RouterDeps{
		Users:            us,
		Itineraries:      is,
		Reviews:          rs,
		Photos:           photos,
		Metrics:          mc,
		Gatherer:         reg,
		LoginLimiter:     limiter,
		Logger:           logger,
		GoogleMapsAPIKey: c.GoogleMapsAPIKey,
		MaxImageBytes:    c.MaxImageBytes,
	})

	return &App{config: c, logger: logger, db: db, handler: handler, limiter: limiter}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, lis net.Listener) {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCAddr, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a signal arrives, then shuts both
// servers down and closes the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	lis, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		app.db.Close()
		return fmt.Errorf("http listen: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, lis)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.limiter.Run(ctx, limiterCleanupPeriod)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return app.db.Close()
}
