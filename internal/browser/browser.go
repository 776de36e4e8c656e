// Package browser renders pages for the scraper. Every backend returns the
// final HTML of a page after JavaScript has run (except the static backend,
// which fetches raw HTML over HTTP).
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Backend names
const (
	Chromedp   = "chromedp"
	Playwright = "playwright"
	Rod        = "rod"
	Static     = "static"
)

const (
	defaultPageTimeout = 30 * time.Second
	settleDelay        = 2 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// blockedImagePatterns are the URL globs aborted when images are blocked
var blockedImagePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.webp"}

// Page is a rendered page
type Page struct {
	URL             string
	HTML            string
	Title           string
	MetaDescription string
}

// Content is the text handed to the contact extractor: the page HTML
// followed by its title and meta description.
func (p *Page) Content() string {
	var b strings.Builder
	b.WriteString(p.HTML)
	for _, extra := range []string{p.Title, p.MetaDescription} {
		if extra != "" {
			b.WriteString(" ")
			b.WriteString(extra)
		}
	}
	return b.String()
}

// Renderer loads a URL and returns the rendered page. Implementations are
// safe for concurrent Render calls.
type Renderer interface {
	Render(ctx context.Context, url string) (*Page, error)
	Close() error
}

// Options configures a Renderer
type Options struct {
	Backend     string
	BrowserType string // chromium, firefox or webkit (playwright only)
	Headless    bool
	UserAgent   string
	BlockImages bool
	PageTimeout time.Duration
	Logger      *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = Chromedp
	}
	if o.BrowserType == "" {
		o.BrowserType = "chromium"
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = defaultPageTimeout
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Backends lists the available backends
func Backends() []string {
	return []string{Chromedp, Playwright, Rod, Static}
}

// New starts the configured backend
func New(opts Options) (Renderer, error) {
	opts = opts.withDefaults()

	switch strings.ToLower(opts.Backend) {
	case Chromedp:
		return newChromedpRenderer(opts)
	case Playwright:
		return newPlaywrightRenderer(opts)
	case Rod:
		return newRodRenderer(opts)
	case Static:
		return newStaticRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported browser backend: %s. Available: %s",
			opts.Backend, strings.Join(Backends(), ", "))
	}
}

// newPage fills in title and meta description from the HTML when the backend
// did not report them.
func newPage(url, html, title string) *Page {
	page := &Page{URL: url, HTML: html, Title: strings.TrimSpace(title)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return page
	}
	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if desc, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(desc) != "" {
			page.MetaDescription = strings.TrimSpace(desc)
			break
		}
	}
	return page
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
