package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Options configure the launched browser and its contexts.
type Options struct {
	Headless bool
	// SlowMo slows every operation by this many milliseconds.
	SlowMo    float64
	UserAgent string
	Locale    string
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// NewPlaywright starts the playwright driver and a Chromium instance.
func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	if opts.Locale == "" {
		opts.Locale = "ja-JP"
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(opts.SlowMo)
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser, opts: opts}, nil
}

// NewContext opens an isolated browser context with the given cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	options := playwright.BrowserNewContextOptions{
		Locale: playwright.String(pm.opts.Locale),
	}
	if pm.opts.UserAgent != "" {
		options.UserAgent = playwright.String(pm.opts.UserAgent)
	}

	bctx, err := pm.browser.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}
