package lancers

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/browser"
	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/scraper"
	"go-lancers-notifier/utils"
)

const (
	linkSelector     = "a[href*='/work/detail/']"
	loadMoreSelector = ".more-button, .load-more, [class*='more']"

	containerScript = `(el, sel) => { const p = el.closest(sel); return p ? p.outerHTML : "" }`
)

// Options tune page loading. Zero values use the defaults below.
type Options struct {
	SearchURL     string
	GotoTimeout   time.Duration
	SettleWait    time.Duration
	ScrollPause   time.Duration
	ScrollsBefore int
	ScrollsAfter  int
}

func (o *Options) applyDefaults() {
	if o.GotoTimeout == 0 {
		o.GotoTimeout = 60 * time.Second
	}
	if o.SettleWait == 0 {
		o.SettleWait = 5 * time.Second
	}
	if o.ScrollPause == 0 {
		o.ScrollPause = 2 * time.Second
	}
	if o.ScrollsBefore == 0 {
		o.ScrollsBefore = 5
	}
	if o.ScrollsAfter == 0 {
		o.ScrollsAfter = 3
	}
}

// Scraper reads the Lancers system-development search page. Candidates stay
// bound to the page, so it must remain open until they are processed.
type Scraper struct {
	page   playwright.Page
	opts   Options
	logger *zap.Logger
	shots  *utils.ScreenshotDebugger
}

var _ scraper.Source = (*Scraper)(nil)

func New(page playwright.Page, opts Options, logger *zap.Logger, shots *utils.ScreenshotDebugger) *Scraper {
	opts.applyDefaults()
	return &Scraper{page: page, opts: opts, logger: logger, shots: shots}
}

func (s *Scraper) Name() string {
	return "Lancers"
}

func (s *Scraper) Fetch(ctx context.Context) ([]models.Candidate, error) {
	s.logger.Info("opening search page", zap.String("url", s.opts.SearchURL))
	resp, err := s.page.Goto(s.opts.SearchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.opts.GotoTimeout.Milliseconds())),
	})
	if err != nil {
		_ = s.shots.CaptureAndLog(s.page, "lancers-goto", "navigation failed")
		return nil, fmt.Errorf("goto %s: %w", s.opts.SearchURL, err)
	}
	if resp != nil {
		s.logger.Info("page loaded", zap.Int("status", resp.Status()))
	}

	if err := browser.Wait(ctx, s.opts.SettleWait); err != nil {
		return nil, err
	}
	if err := s.loadMore(ctx); err != nil {
		// partial pages are still useful
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("scroll loading failed", zap.Error(err))
	}

	links, err := s.page.Locator(linkSelector).All()
	if err != nil {
		_ = s.shots.CaptureAndLog(s.page, "lancers-links", "listing links not found")
		return nil, fmt.Errorf("query listing links: %w", err)
	}
	s.logger.Info("listing candidates found", zap.Int("count", len(links)))

	candidates := make([]models.Candidate, len(links))
	for i, l := range links {
		candidates[i] = candidate{loc: l}
	}
	return candidates, nil
}

func (s *Scraper) loadMore(ctx context.Context) error {
	if err := browser.ScrollToBottom(ctx, s.page, s.opts.ScrollsBefore, s.opts.ScrollPause); err != nil {
		return err
	}
	// keep the session from looking idle between scroll passes
	if err := browser.MouseJiggle(ctx, s.page); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("mouse jiggle failed", zap.Error(err))
	}
	clicked, err := browser.ClickLoadMore(ctx, s.page, loadMoreSelector, s.opts.ScrollPause+time.Second)
	if err != nil {
		s.logger.Debug("load more click failed", zap.Error(err))
	}
	if clicked {
		s.logger.Debug("clicked load more")
	}
	return browser.ScrollToBottom(ctx, s.page, s.opts.ScrollsAfter, s.opts.ScrollPause)
}

// candidate is a detail link on the live page.
type candidate struct {
	loc playwright.Locator
}

func (c candidate) Text() (string, error) {
	return c.loc.TextContent()
}

func (c candidate) Href() (string, error) {
	return c.loc.GetAttribute("href")
}

// Details parses the card around the link. A failed evaluate is an error;
// a missing or odd card yields partial defaults.
func (c candidate) Details(ctx context.Context) (models.RecruitmentDetails, error) {
	if err := ctx.Err(); err != nil {
		return models.RecruitmentDetails{}, err
	}
	out, err := c.loc.Evaluate(containerScript, scraper.ContainerSelector)
	if err != nil {
		return models.RecruitmentDetails{}, fmt.Errorf("evaluate listing container: %w", err)
	}
	html, _ := out.(string)
	return scraper.ParseDetails(html), nil
}
