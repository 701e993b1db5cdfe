package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Wait sleeps for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RandomDelay waits for a random duration between min and max milliseconds.
func RandomDelay(ctx context.Context, min, max int) error {
	if max <= min {
		return Wait(ctx, time.Duration(min)*time.Millisecond)
	}
	return Wait(ctx, time.Duration(rand.Intn(max-min+1)+min)*time.Millisecond)
}

// ScrollToBottom scrolls to the end of the page times times, pausing after
// each scroll so lazy content can load.
func ScrollToBottom(ctx context.Context, page playwright.Page, times int, pause time.Duration) error {
	for i := 0; i < times; i++ {
		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return err
		}
		if err := Wait(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}

// ClickLoadMore clicks the first visible element matching selector. It
// reports whether anything was clicked.
func ClickLoadMore(ctx context.Context, page playwright.Page, selector string, pause time.Duration) (bool, error) {
	button := page.Locator(selector).First()
	visible, err := button.IsVisible()
	if err != nil || !visible {
		return false, err
	}
	if err := button.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err != nil {
		return false, err
	}
	return true, Wait(ctx, pause)
}

// MouseJiggle simulates random mouse movements to prevent idle detection.
func MouseJiggle(ctx context.Context, page playwright.Page) error {
	width, height := 1280, 720
	if vp := page.ViewportSize(); vp != nil {
		width, height = vp.Width, vp.Height
	}
	for i := 0; i < 3; i++ {
		if err := page.Mouse().Move(float64(rand.Intn(width)), float64(rand.Intn(height))); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100, 300); err != nil {
			return err
		}
	}
	return nil
}
