package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/luisltferreira/CliMate-App/internal/app"
	"github.com/luisltferreira/CliMate-App/internal/clock"
	"github.com/luisltferreira/CliMate-App/internal/config"
	"github.com/luisltferreira/CliMate-App/internal/domain"
	"github.com/luisltferreira/CliMate-App/internal/geocode"
	"github.com/luisltferreira/CliMate-App/internal/geoloc"
	"github.com/luisltferreira/CliMate-App/internal/storage/localdb"
	"github.com/luisltferreira/CliMate-App/internal/storage/postgres"
	transporthttp "github.com/luisltferreira/CliMate-App/internal/transport/http"
	"github.com/luisltferreira/CliMate-App/migrations"
)

const shutdownTimeout = 10 * time.Second

// repository is the full persistence adapter contract both bindings satisfy.
type repository interface {
	app.StoreRepository
	app.LedgerRepository
}

func main() {
	logger := setupLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warnf("invalid log level %q, keeping %s", cfg.LogLevel, logger.GetLevel())
	} else {
		logger.SetLevel(level)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var repo repository
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(startupCtx); err != nil {
			logger.Fatalf("db ping: %v", err)
		}
		if err := migrations.Apply(startupCtx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		repo = postgres.NewRepository(pool)
		logger.Info("using postgres backend")
	case config.BackendLocal:
		store, err := localdb.Open(cfg.LocalDBPath)
		if err != nil {
			logger.Fatalf("open local db: %v", err)
		}
		defer func() { _ = store.Close() }()
		repo = store
		logger.Infof("using local backend at %s", cfg.LocalDBPath)
	}

	clk := clock.NewSystem()
	store := app.NewEntityStore(repo, clk)
	ledger := app.NewInterestLedger(repo, store)

	geocoder := geocode.NewClient(geocode.WithBaseURL(cfg.NominatimURL))
	locator := geoloc.NewProvider(geoloc.StaticSource{
		Coords: domain.Coordinates{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng},
	}, clk)

	wizards := transporthttp.NewWizardRegistry(func(creatorID string) *app.Wizard {
		return app.NewWizard(store, geocoder, geocoder, locator, creatorID)
	})

	// Prime the mirror so a later backend outage still has a snapshot to
	// serve.
	if _, _, err := store.LoadAll(startupCtx, ""); err != nil {
		logger.Warnf("initial snapshot load failed: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/session", transporthttp.HandleSession(store))
	mux.Handle("/events", transporthttp.HandleEvents(store))
	mux.Handle("/events/", transporthttp.HandleInterest(ledger))
	mux.Handle("/users/", transporthttp.HandleProfile(store))
	mux.Handle("/wizard", transporthttp.HandleWizard(wizards))
	mux.Handle("/wizard/", transporthttp.HandleWizard(wizards))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Infof("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server error: %v", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}

func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stdout)
	return logger
}
