package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// noisyMessages are chromedp log lines about CDP events this chromedp
// version cannot decode
var noisyMessages = []string{
	"could not unmarshal event",
	"unknown PrivateNetworkRequestPolicy",
	"unknown ClientNavigationReason",
}

type chromedpRenderer struct {
	opts        Options
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
}

func newChromedpRenderer(opts Options) (*chromedpRenderer, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.BlockImages {
		allocOpts = append(allocOpts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	logf := filteredLogf(opts.Logger)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logf),
		chromedp.WithErrorf(logf),
	)

	// Start the browser now so a missing Chrome fails fast
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &chromedpRenderer{
		opts:        opts,
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancelCtx:   cancelCtx,
	}, nil
}

func filteredLogf(logger *logrus.Logger) func(string, ...interface{}) {
	return func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		for _, noisy := range noisyMessages {
			if strings.Contains(msg, noisy) {
				return
			}
		}
		logger.WithField("backend", Chromedp).Debug(msg)
	}
}

// Render opens url in a new tab of the shared browser
func (r *chromedpRenderer) Render(ctx context.Context, url string) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	// Tie the tab to the caller's context as well
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancel := context.WithTimeout(tabCtx, r.opts.PageTimeout)
	defer cancel()

	var html, title string
	actions := []chromedp.Action{network.Enable()}
	if r.opts.BlockImages {
		actions = append(actions, network.SetBlockedURLs(blockedImagePatterns))
	}
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil),
		chromedp.Sleep(settleDelay),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}
	return newPage(url, html, title), nil
}

func (r *chromedpRenderer) Close() error {
	err := chromedp.Cancel(r.browserCtx)
	r.cancelCtx()
	r.cancelAlloc()
	if err != nil && err != context.Canceled {
		return fmt.Errorf("failed to close chrome: %w", err)
	}
	return nil
}
