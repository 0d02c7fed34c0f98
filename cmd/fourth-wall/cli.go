package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/api"
	"github.com/CharlesIC/fourth-wall/internal/api/github"
	"github.com/CharlesIC/fourth-wall/internal/config"
	"github.com/CharlesIC/fourth-wall/internal/dashboard"
	"github.com/CharlesIC/fourth-wall/internal/logging"
	"github.com/CharlesIC/fourth-wall/internal/repos"
	"github.com/CharlesIC/fourth-wall/internal/service"
)

// CLI holds command-line flags. Flags override the config file, which overrides the
// environment.
type CLI struct {
	Config    string `help:"YAML configuration file" short:"c" type:"path"`
	Port      int    `help:"HTTP listen port" short:"p"`
	Query     string `help:"Dashboard query string, e.g. 'team=org/team&filterusers=false'" short:"q"`
	GitHubURL string `name:"github-url" help:"GitHub API root"`
	RedisAddr string `help:"Redis address for a shared response cache"`
	Debug     bool   `help:"Enable debug logging" short:"d"`
}

// loadConfig layers environment, config file and flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.Config != "" {
		if err := cfg.LoadFile(c.Config); err != nil {
			return nil, err
		}
	}

	if c.Port != 0 {
		cfg.Port = c.Port
	}
	if c.Query != "" {
		cfg.Query = c.Query
	}
	if c.GitHubURL != "" {
		cfg.GitHubURL = c.GitHubURL
	}
	if c.RedisAddr != "" {
		cfg.RedisAddr = c.RedisAddr
	}
	if c.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// Run starts the scheduler and the HTTP server and blocks until interrupted.
func (c *CLI) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(app.closeStreams)

	app.scheduler.Start()
	defer app.scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

type app struct {
	handler      http.Handler
	scheduler    *service.Scheduler
	closeStreams func()
	close        func()
}

// buildApp wires up all dependencies.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	session := service.NewSession(cfg.Query, logger)

	cache, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}
	fetcher := api.NewCachingFetcher(
		api.NewHTTPFetcher(httpClient, session.Query, logger),
		cache, cfg.CacheDuration(), logger)
	client := github.NewClient(cfg.GitHubURL, fetcher)

	store := service.NewStore()
	sources := repos.ConfiguredSources(session.Options, client, session.Users, store, logger)
	if len(sources) == 0 {
		logger.Warn("no repository source configured; set file, gist or team in the query")
	}
	aggregator := service.NewAggregator(session, sources, client, store, logger)
	scheduler := service.NewScheduler(aggregator, session.Options.RepoInterval, session.Options.StatusInterval, logger)

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:       dashboard.NewHTMLRenderer(),
		Logger:         logger,
		State:          store,
		Policy:         session,
		Refresher:      scheduler,
		Changes:        store,
		RefreshSeconds: int(session.Options.StatusInterval / time.Second),
	})

	logger.Info("dashboard configured",
		zap.Int("sources", len(sources)),
		zap.Int("teams", len(session.Options.Teams)),
		zap.Duration("repoInterval", session.Options.RepoInterval),
		zap.Duration("statusInterval", session.Options.StatusInterval),
		zap.Duration("cacheDuration", cfg.CacheDuration()),
		zap.Bool("redis", cfg.HasRedis()))

	return &app{handler: handler.Router(), scheduler: scheduler, closeStreams: handler.Close, close: closeCache}, nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (api.Cache, func(), error) {
	if cfg.HasRedis() {
		rc, err := api.NewRedisCache(ctx, cfg.RedisAddr, logger)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	mc := api.NewMemoryCache()
	return mc, mc.Close, nil
}
