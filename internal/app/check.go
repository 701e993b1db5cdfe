package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/browser"
)

// BrowserReport is what CheckBrowser saw on the search page.
type BrowserReport struct {
	Cookies    int
	Title      string
	Links      int
	Screenshot string
}

// CheckBrowser opens the configured search page with the stored cookies and
// saves a screenshot, without running the pipeline.
func (a *App) CheckBrowser(ctx context.Context, screenshot string) (BrowserReport, error) {
	var report BrowserReport

	cookies, err := a.loadCookies()
	if err != nil {
		return report, fmt.Errorf("load cookies: %w", err)
	}
	report.Cookies = len(cookies)
	a.logger.Info("cookies loaded", zap.Int("count", report.Cookies))

	pm, err := browser.NewPlaywright(browser.Options{
		Headless:  a.cfg.Source.Headless,
		UserAgent: a.cfg.Source.UserAgent,
	})
	if err != nil {
		return report, err
	}
	defer pm.Close()

	bctx, err := pm.NewContext(cookies)
	if err != nil {
		return report, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		return report, fmt.Errorf("could not create page: %w", err)
	}

	if _, err := page.Goto(a.cfg.Source.SearchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return report, fmt.Errorf("navigate to %s: %w", a.cfg.Source.SearchURL, err)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Title, _ = page.Title()
	report.Links, _ = page.Locator("a[href*='/work/detail/']").Count()

	if screenshot != "" {
		if err := os.MkdirAll(filepath.Dir(screenshot), 0o755); err != nil {
			return report, err
		}
		if _, err := page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(screenshot),
			FullPage: playwright.Bool(true),
		}); err != nil {
			a.logger.Warn("failed to capture screenshot", zap.Error(err))
		} else {
			report.Screenshot = screenshot
		}
	}
	return report, nil
}
