// Package server wires the ledger store, the scheduler services and the
// network endpoints into one runnable application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/archive"
	"github.com/dmitrijs2005/payrun/internal/server/config"
	"github.com/dmitrijs2005/payrun/internal/server/database"
	"github.com/dmitrijs2005/payrun/internal/server/metrics"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/payrun/internal/server/services"

	gs "github.com/dmitrijs2005/payrun/internal/server/grpc"
)

var (
	openDatabase = database.Open
	newArchiver  = func(ctx context.Context, o archive.Options) (services.ReceiptArchiver, error) {
		return archive.NewS3Archiver(ctx, o)
	}
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *database.DB
	recorder  *metrics.Recorder
	scheduler *services.Scheduler
	registry  *services.RegistryService
	ledger    *services.LedgerService
}

// NewApp opens and migrates the ledger store and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDatabase(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.NewSQLRepositoryManager(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := m.RunMigrations(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	recorder := metrics.NewRecorder()
	opts := []services.SchedulerOption{services.WithRecorder(recorder)}

	if c.S3Bucket != "" {
		a, err := newArchiver(ctx, archive.Options{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Prefix:    c.ReceiptPrefix,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		opts = append(opts, services.WithArchiver(a))
	} else {
		logger.Info(ctx, "Receipt archiving disabled, no bucket configured")
	}

	writer := &sync.Mutex{}

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		recorder:  recorder,
		scheduler: services.NewScheduler(db.DB, m, writer, logger, opts...),
		registry:  services.NewRegistryService(db.DB, m, writer, logger),
		ledger:    services.NewLedgerService(db.DB, m, writer, logger),
	}, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.scheduler, app.registry, app.ledger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := metrics.NewServer(app.config.MetricsAddr, app.recorder, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "metrics server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a signal arrives, then waits up to
// the shutdown timeout for the servers to stop and closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	// Fill whatever room the board has left from the previous run.
	if _, err := app.scheduler.RunAutoFill(ctx); err != nil {
		app.logger.Error(ctx, "startup auto-fill failed", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	<-ctx.Done()

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(app.config.ShutdownTimeout):
		app.logger.Warn(context.Background(), "Shutdown timed out", "timeout", app.config.ShutdownTimeout.String())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
