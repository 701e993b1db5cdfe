// Package app wires configuration to the pipeline and its collaborators.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/browser"
	"go-lancers-notifier/internal/config"
	"go-lancers-notifier/internal/database"
	"go-lancers-notifier/internal/dedup"
	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/pipeline"
	"go-lancers-notifier/internal/record"
	"go-lancers-notifier/internal/reporter"
	"go-lancers-notifier/internal/scraper"
	"go-lancers-notifier/internal/scraper/lancers"
	"go-lancers-notifier/internal/telegram"
	"go-lancers-notifier/utils"
)

// SourceOpener starts a source; the returned closer releases its resources
// after the run has processed every candidate.
type SourceOpener func(ctx context.Context) (scraper.Source, func() error, error)

type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	pipeline  *pipeline.Pipeline
	preview   *pipeline.Pipeline
	store     *record.FileStore
	repo      *database.Repository
	reporters *reporter.Fanout
	open      SourceOpener
	closers   []func() error
}

type Option func(*App)

// WithSource replaces the browser-backed Lancers source.
func WithSource(open SourceOpener) Option {
	return func(a *App) { a.open = open }
}

// WithReporters replaces the reporters built from configuration.
func WithReporters(rs ...reporter.Reporter) Option {
	return func(a *App) { a.reporters = reporter.NewFanout(a.logger, rs...) }
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		store:  record.NewFileStore(cfg.Output.RecordsDir),
	}
	a.open = a.openLancers

	for _, c := range cfg.Taxonomy.Conflicts() {
		logger.Warn("keyword configured in more than one tier", zap.String("conflict", c.String()))
	}

	deps := cfg.PipelineDeps()
	deps.Logger = logger

	preview, err := pipeline.New(deps)
	if err != nil {
		return nil, err
	}
	a.preview = preview

	history, err := a.openHistory(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	deps.History = history
	if a.pipeline, err = pipeline.New(deps); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Database.URL != "" {
		repo, err := database.ConnectDB(ctx, cfg.Database.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			a.Close()
			return nil, err
		}
		a.repo = repo
		a.closers = append(a.closers, func() error { repo.Close(); return nil })
		logger.Info("database enabled")
	}

	if err := a.buildReporters(); err != nil {
		a.Close()
		return nil, err
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) openHistory(ctx context.Context) (dedup.History, error) {
	switch a.cfg.History.Backend {
	case config.HistoryFile:
		return dedup.NewFileHistory(a.cfg.History.CachePath, a.cfg.History.Retention, a.logger)
	case config.HistoryRedis:
		rdb, err := dedup.NewRedisClient(ctx, a.cfg.History.RedisURL)
		if err != nil {
			return nil, err
		}
		h := dedup.NewRedisHistory(rdb, a.cfg.History.Retention)
		a.closers = append(a.closers, h.Close)
		return h, nil
	default:
		return nil, nil
	}
}

func (a *App) buildReporters() error {
	var rs []reporter.Reporter
	if a.cfg.Teams.WebhookURL != "" || a.cfg.Teams.DryRun {
		rs = append(rs, reporter.NewTeamsReporter(a.cfg.Teams.WebhookURL, a.cfg.Teams.DryRun, a.logger))
	}
	if a.cfg.Telegram.Token != "" && !a.cfg.Teams.DryRun {
		bot, err := telegram.NewBot(a.cfg.Telegram.Token, a.cfg.Telegram.ChatID)
		if err != nil {
			return err
		}
		rs = append(rs, bot)
	}
	if len(rs) == 0 {
		a.logger.Warn("no notification channel configured")
	}
	a.reporters = reporter.NewFanout(a.logger, rs...)
	return nil
}

func (a *App) openLancers(ctx context.Context) (scraper.Source, func() error, error) {
	pm, err := browser.NewPlaywright(browser.Options{
		Headless:  a.cfg.Source.Headless,
		UserAgent: a.cfg.Source.UserAgent,
	})
	if err != nil {
		return nil, nil, err
	}

	cookies, err := a.loadCookies()
	if err != nil {
		a.logger.Warn("could not load cookies, continuing without", zap.Error(err))
	}

	bctx, err := pm.NewContext(cookies)
	if err != nil {
		_ = pm.Close()
		return nil, nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = pm.Close()
		return nil, nil, fmt.Errorf("could not create page: %w", err)
	}

	src := lancers.New(page, lancers.Options{SearchURL: a.cfg.Source.SearchURL}, a.logger,
		utils.NewScreenshotDebugger(a.cfg.Source.ScreenshotDir, a.logger))
	return src, pm.Close, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Store() *record.FileStore {
	return a.store
}

// Repository is nil when no database is configured.
func (a *App) Repository() *database.Repository {
	return a.repo
}

// RunOnce fetches, ranks, stores and notifies. A failed store or notification
// is reported after the remaining steps ran. Listings enter history only after
// every reporter accepted the card.
func (a *App) RunOnce(ctx context.Context) (pipeline.Result, error) {
	src, closeSource, err := a.open(ctx)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if err := closeSource(); err != nil {
			a.logger.Warn("closing source", zap.Error(err))
		}
	}()

	candidates, err := src.Fetch(ctx)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("fetch %s: %w", src.Name(), err)
	}

	res, err := a.pipeline.Execute(ctx, candidates)
	if err != nil {
		return res, err
	}

	var errs []error
	path, err := a.store.Save(res.Record)
	if err != nil {
		errs = append(errs, err)
	} else {
		a.logger.Info("record saved", zap.String("path", path))
	}

	if a.repo != nil {
		if err := a.repo.SaveRun(ctx, res.Record, res.Payload.Displayed); err != nil {
			errs = append(errs, err)
		}
	}

	if err := a.reporters.Send(ctx, res.Payload); err != nil {
		// unsent listings stay out of history so the next run retries them
		errs = append(errs, err)
		return res, errors.Join(errs...)
	}
	if a.cfg.Teams.DryRun {
		return res, errors.Join(errs...)
	}
	if err := a.pipeline.MarkNotified(ctx, res.Listings); err != nil {
		a.logger.Warn("history update failed", zap.Error(err))
	}
	return res, errors.Join(errs...)
}

// Preview runs the pipeline over the given candidates without touching
// history, storage or reporters.
func (a *App) Preview(ctx context.Context, candidates []models.Candidate) (pipeline.Result, error) {
	return a.preview.Execute(ctx, candidates)
}

// NotifyTest sends a card built from fixed listings through every reporter.
func (a *App) NotifyTest(ctx context.Context) error {
	res, err := a.preview.Execute(ctx, SampleCandidates())
	if err != nil {
		return err
	}
	return a.reporters.Send(ctx, res.Payload)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("closing", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *App) loadCookies() ([]playwright.OptionalCookie, error) {
	if a.cfg.Source.CookiesPath == "" {
		return nil, nil
	}
	return browser.LoadCookies(filepath.Clean(a.cfg.Source.CookiesPath))
}
