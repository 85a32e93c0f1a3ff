package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/marketplace/internal/config"
	"github.com/GlebRadaev/marketplace/internal/handlers"
	"github.com/GlebRadaev/marketplace/internal/pg"
	"github.com/GlebRadaev/marketplace/internal/repo"
	"github.com/GlebRadaev/marketplace/internal/seed"
	"github.com/GlebRadaev/marketplace/internal/service"
	"github.com/GlebRadaev/marketplace/internal/service/identityservice"
	"github.com/GlebRadaev/marketplace/internal/session"
	"github.com/GlebRadaev/marketplace/pkg/auth"
	"github.com/GlebRadaev/marketplace/pkg/logger"
)

const sweepInterval = time.Minute

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg  *config.Config
	api  *handlers.Handlers
	srv  *service.Services
	repo *repo.Repositories

	// closers release storage and session backends after the server stops.
	closers []func() error

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("can't load config: %w", err)
	}

	err = logger.InitLogger(cfg.LogLvl, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	return a.start(ctx, cfg)
}

func (a *Application) start(ctx context.Context, cfg *config.Config) error {
	a.cfg = cfg

	repos, err := a.buildRepositories(ctx)
	if err != nil {
		return err
	}
	sessions, err := a.buildSessionStore(ctx)
	if err != nil {
		return err
	}
	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, repos); err != nil {
			return fmt.Errorf("can't seed demo data: %w", err)
		}
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	a.repo = repos
	a.srv = service.New(a.repo, sessions, jwtService, cfg)
	a.api = handlers.New(a.srv, jwtService)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully",
		zap.Bool("postgres", cfg.UsesPostgres()),
		zap.Bool("redis", cfg.UsesRedis()))
	return nil
}

func (a *Application) buildRepositories(ctx context.Context) (*repo.Repositories, error) {
	if !a.cfg.UsesPostgres() {
		zap.L().Info("no database configured, using in-memory storage")
		return repo.NewInMemory(), nil
	}

	pool, err := pg.Connect(ctx, a.cfg.Database)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't build pgx pool: %w", err)
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't run migrations: %w", err)
	}
	return repo.New(pg.New(pool), pg.NewTXManager(pool)), nil
}

func (a *Application) buildSessionStore(ctx context.Context) (identityservice.SessionStore, error) {
	if !a.cfg.UsesRedis() {
		store := session.NewMemoryStore()
		a.startSessionSweeper(ctx, session.NewSweeper(store, a.cfg.TokenTTL, sweepInterval))
		return store, nil
	}
	client, err := session.NewRedisClient(ctx, a.cfg.RedisAddress)
	if err != nil {
		zap.L().Error("redis connection failed: ", zap.Error(err))
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return session.NewRedisStore(client, a.cfg.TokenTTL), nil
}

func (a *Application) startSessionSweeper(ctx context.Context, sweeper *session.Sweeper) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sweeper.Run(ctx)
	}()
}

func seedDemoData(ctx context.Context, repos *repo.Repositories) error {
	hash, err := (&auth.HashService{}).HashPassword(seed.DemoPassword)
	if err != nil {
		return err
	}
	seeder := seed.New(repos.UserRepo, repos.ItemRepo, repos.TransactionRepo, repos.TxManager)
	_, err = seeder.Load(ctx, seed.Demo(time.Now(), hash))
	return err
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
		a.closeBackends()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) closeBackends() {
	var g errgroup.Group
	for _, closeFn := range a.closers {
		g.Go(closeFn)
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("can't close backend", zap.Error(err))
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
