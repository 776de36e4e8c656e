package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type rodRenderer struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	router   *rod.HijackRouter
}

func newRodRenderer(opts Options) (*rodRenderer, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		NoSandbox(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r := &rodRenderer{opts: opts, launcher: l, browser: browser}

	if opts.BlockImages {
		r.router = browser.HijackRequests()
		err := r.router.Add("*", proto.NetworkResourceTypeImage, func(h *rod.Hijack) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("failed to block images: %w", err)
		}
		go r.router.Run()
	}

	return r, nil
}

func (r *rodRenderer) Render(ctx context.Context, url string) (*Page, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	defer page.Close()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.opts.UserAgent}); err != nil {
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}

	p := page.Context(ctx).Timeout(r.opts.PageTimeout)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", url, err)
	}

	if err := sleep(ctx, settleDelay); err != nil {
		return nil, err
	}
	if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		r.opts.Logger.WithError(err).WithField("url", url).Debug("scroll failed")
	}
	if err := sleep(ctx, settleDelay); err != nil {
		return nil, err
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %s: %w", url, err)
	}

	var title string
	if info, err := p.Info(); err == nil {
		title = info.Title
	}
	return newPage(url, html, title), nil
}

func (r *rodRenderer) Close() error {
	if r.router != nil {
		if err := r.router.Stop(); err != nil {
			r.opts.Logger.WithError(err).Debug("failed to stop hijack router")
		}
	}
	err := r.browser.Close()
	r.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
