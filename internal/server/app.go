// Package server wires the folio server together: storage, services,
// background jobs, the web site and the gRPC content API. It also handles
// graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/logging"
	"github.com/dmitrijs2005/folio/internal/server/config"
	"github.com/dmitrijs2005/folio/internal/server/jobs"
	"github.com/dmitrijs2005/folio/internal/server/media"
	"github.com/dmitrijs2005/folio/internal/server/payments"
	"github.com/dmitrijs2005/folio/internal/server/profile"
	"github.com/dmitrijs2005/folio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/folio/internal/server/services"
	"github.com/dmitrijs2005/folio/internal/server/ticker"
	"github.com/dmitrijs2005/folio/internal/server/web"

	gs "github.com/dmitrijs2005/folio/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB

	content *services.ContentService
	users   *services.UserService
	jobs    *jobs.Manager
	web     *web.Server
}

// Open connects to the configured database and applies pending migrations.
func Open(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := dbx.Open(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	m := repomanager.New(dialect)
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return db, m, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, closer := logging.New(logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		File:       c.LogFile,
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 28,
	})

	app := &App{config: c, logger: logger, logCloser: closer}
	if err := app.init(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	db, m, err := Open(ctx, c)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	prof, err := profile.Load(c.ProfileFile)
	if err != nil {
		return err
	}

	uploader, err := media.New(ctx, c)
	if err != nil {
		return fmt.Errorf("media init error: %w", err)
	}

	cs, err := services.NewContentService(db, m, c, app.logger)
	if err != nil {
		return err
	}
	app.content = cs

	site := services.NewSiteService(cs)
	app.users = services.NewUserService(db, m, c)
	ps := services.NewPaymentService(payments.NewRazorpayGateway(c.RazorpayKeyID, c.RazorpayKeySecret), site, c, app.logger)

	tk := ticker.New(prof.Ticker, c.TickerURL, app.logger)

	app.jobs, err = jobs.NewManager(app.logger)
	if err != nil {
		return err
	}
	if c.TickerURL != "" && c.TickerInterval > 0 {
		if err := app.jobs.Register(ticker.NewPollJob(tk, c.TickerInterval)); err != nil {
			return err
		}
	}
	if err := app.jobs.Register(services.NewTokenPurgeJob(app.users, time.Hour, app.logger)); err != nil {
		return err
	}

	app.web, err = web.New(web.Deps{
		Site:       site,
		Users:      app.users,
		Payments:   ps,
		Uploader:   uploader,
		Ticker:     tk,
		Profile:    prof,
		SessionKey: c.SessionKey,
		AssetsDir:  c.AssetsDir,
		Currency:   c.Currency,
		Logger:     app.logger,
	})
	return err
}

func (app *App) close() {
	if app.jobs != nil {
		app.jobs.Stop()
	}
	if app.content != nil {
		app.content.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close failed", "error", err)
		}
	}
	_ = app.logCloser.Close()
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
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.users, app.content)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.web.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(sctx, "http shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run starts all servers and jobs and blocks until a shutdown signal arrives
// or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	app.jobs.Start()

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "app stopped")
}
