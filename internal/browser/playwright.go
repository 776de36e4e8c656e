package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

type playwrightRenderer struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

func newPlaywrightRenderer(opts Options) (*playwrightRenderer, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch strings.ToLower(opts.BrowserType) {
	case "chromium", "chrome":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit", "safari":
		browserType = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unsupported browser type: %s. Available: chromium, firefox, webkit", opts.BrowserType)
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.BrowserType, err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(opts.UserAgent),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if opts.BlockImages {
		err = bctx.Route("**/*.{png,jpg,jpeg,gif,svg,webp}", func(route playwright.Route) {
			_ = route.Abort()
		})
		if err != nil {
			_ = browser.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("failed to block images: %w", err)
		}
	}

	return &playwrightRenderer{opts: opts, pw: pw, browser: browser, context: bctx}, nil
}

func (r *playwrightRenderer) Render(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := r.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	defer page.Close()

	// Closing the tab aborts a pending navigation on cancellation
	stop := context.AfterFunc(ctx, func() { _ = page.Close() })
	defer stop()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(r.opts.PageTimeout.Milliseconds())),
	}); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}

	if err := sleep(ctx, settleDelay); err != nil {
		return nil, err
	}
	if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
		r.opts.Logger.WithError(err).WithField("url", url).Debug("scroll failed")
	}
	if err := sleep(ctx, settleDelay); err != nil {
		return nil, err
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %s: %w", url, err)
	}
	title, _ := page.Title()

	return newPage(url, html, title), nil
}

func (r *playwrightRenderer) Close() error {
	if err := r.context.Close(); err != nil {
		r.opts.Logger.WithError(err).Debug("failed to close playwright context")
	}
	if err := r.browser.Close(); err != nil {
		r.opts.Logger.WithError(err).Debug("failed to close playwright browser")
	}
	if err := r.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
