package browser

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"
)

// staticRenderer fetches raw HTML without running JavaScript. It is the
// cheapest backend and works without a local browser.
type staticRenderer struct {
	opts      Options
	transport http.RoundTripper
}

func newStaticRenderer(opts Options) *staticRenderer {
	return &staticRenderer{opts: opts, transport: http.DefaultTransport.(*http.Transport).Clone()}
}

func (r *staticRenderer) Render(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.UserAgent(r.opts.UserAgent))
	c.SetRequestTimeout(r.opts.PageTimeout)
	// colly.Visit takes no context; bind it per request instead
	c.WithTransport(contextTransport{ctx: ctx, base: r.transport})

	var body []byte
	c.OnResponse(func(resp *colly.Response) {
		body = resp.Body
	})

	if err := c.Visit(url); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newPage(url, string(body), ""), nil
}

func (r *staticRenderer) Close() error {
	if t, ok := r.transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// contextTransport sends every request under ctx so cancelling a run aborts
// an in-flight fetch.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
