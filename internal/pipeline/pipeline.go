// Package pipeline drives a scrape run: search pages are rendered and parsed,
// candidate links are validated, and each profile page is rendered and
// scanned for contacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/khrees2412/contactscout/internal/browser"
	"github.com/khrees2412/contactscout/internal/contacts"
	"github.com/khrees2412/contactscout/internal/profileurl"
	"github.com/khrees2412/contactscout/internal/search"
	"github.com/khrees2412/contactscout/pkg/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SourceLinkedIn is the Source value of every scraped profile
const SourceLinkedIn = "LinkedIn"

// Options controls a single run
type Options struct {
	Keyword        string
	EmailProviders []string
	MaxPages       int
	ResultsPerPage int
	Concurrency    int
	RequestDelay   time.Duration
	SkipSeen       bool // skip profiles stored by earlier runs
}

func (o Options) validate() error {
	switch {
	case o.Keyword == "":
		return errors.New("keyword is required")
	case o.MaxPages < 1:
		return fmt.Errorf("max pages must be at least 1, got %d", o.MaxPages)
	case o.ResultsPerPage < 1:
		return fmt.Errorf("results per page must be at least 1, got %d", o.ResultsPerPage)
	case o.RequestDelay < 0:
		return fmt.Errorf("request delay must not be negative, got %s", o.RequestDelay)
	}
	return nil
}

// State is everything a run has accumulated. It is owned by the goroutine
// calling Run; profile workers only hand results back.
type State struct {
	RunID      string
	Query      string
	Page       int
	Results    []*models.Profile
	Seen       map[string]bool
	Candidates int
	Rejected   int
	Failed     int
	InProgress bool
}

// NewState returns an empty state for query
func NewState(runID, query string) *State {
	return &State{
		RunID:   runID,
		Query:   query,
		Results: []*models.Profile{},
		Seen:    map[string]bool{},
	}
}

// SeenFunc reports whether a profile URL was already scraped before this run
type SeenFunc func(ctx context.Context, url string) (bool, error)

// Runner wires the renderer and search provider together
type Runner struct {
	Renderer browser.Renderer
	Provider search.Provider
	Reporter Reporter
	Logger   *logrus.Logger
	SeenFunc SeenFunc
}

// Run executes a run into state. The state is returned even on error so
// partial results can be saved. search.ErrCaptcha stops the run.
func (r *Runner) Run(ctx context.Context, state *State, opts Options) (*State, error) {
	if err := opts.validate(); err != nil {
		return state, err
	}
	if state == nil {
		state = NewState("", search.BuildQuery(opts.Keyword, opts.EmailProviders))
	}
	if state.Query == "" {
		state.Query = search.BuildQuery(opts.Keyword, opts.EmailProviders)
	}
	if state.Seen == nil {
		state.Seen = map[string]bool{}
	}
	reporter := r.reporter()
	log := r.logger().WithFields(logrus.Fields{"run": state.RunID, "engine": r.Provider.Engine()})

	state.InProgress = true
	defer func() { state.InProgress = false }()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RequestDelay), 1)
	}

	for page := 1; page <= opts.MaxPages; page++ {
		state.Page = page
		reporter.SetPage(page, opts.MaxPages)

		links, err := r.searchPage(ctx, limiter, state.Query, page)
		if err != nil {
			reporter.Error(err)
			return state, err
		}
		if len(links) == 0 {
			reporter.SetStatus("no more results")
			log.WithField("page", page).Info("no results, stopping")
			break
		}
		state.Candidates += len(links)

		selected, err := r.selectLinks(ctx, state, links, page, opts)
		if err != nil {
			return state, err
		}
		log.WithFields(logrus.Fields{
			"page":       page,
			"candidates": len(links),
			"selected":   len(selected),
		}).Debug("results parsed")

		profiles, failed, err := r.renderProfiles(ctx, limiter, selected, opts.Concurrency, reporter)
		state.Failed += failed
		for _, p := range profiles {
			if p != nil {
				p.RunID = state.RunID
				state.Results = append(state.Results, p)
			}
		}
		if err != nil {
			return state, err
		}
	}

	reporter.Complete(Summary(state.Results))
	return state, nil
}

func (r *Runner) searchPage(ctx context.Context, limiter *rate.Limiter, query string, page int) ([]models.CandidateLink, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	rendered, err := r.Renderer.Render(ctx, r.Provider.PageURL(query, page))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to load results page %d: %w", page, err)
	}
	if err := search.DetectBlock(rendered.HTML); err != nil {
		return nil, err
	}

	links, err := r.Provider.ParseResults(rendered.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page %d: %w", page, err)
	}
	for i := range links {
		links[i].Page = page
	}
	return links, nil
}

// selectLinks keeps the first ResultsPerPage valid, unseen links
func (r *Runner) selectLinks(ctx context.Context, state *State, links []models.CandidateLink, page int, opts Options) ([]models.CandidateLink, error) {
	selected := []models.CandidateLink{}
	for _, link := range links {
		if len(selected) >= opts.ResultsPerPage {
			break
		}

		normalized, ok := profileurl.Normalize(link.URL)
		if !ok {
			state.Rejected++
			continue
		}
		if state.Seen[normalized] {
			continue
		}
		state.Seen[normalized] = true

		if opts.SkipSeen && r.SeenFunc != nil {
			seen, err := r.SeenFunc(ctx, normalized)
			if err != nil {
				return nil, fmt.Errorf("failed to check seen profiles: %w", err)
			}
			if seen {
				r.logger().WithField("url", normalized).Debug("skipping profile from an earlier run")
				continue
			}
		}

		link.URL = normalized
		link.Page = page
		selected = append(selected, link)
	}
	return selected, nil
}

// renderProfiles renders links concurrently. The returned slice is in link
// order and holds nil for pages that failed to render.
func (r *Runner) renderProfiles(ctx context.Context, limiter *rate.Limiter, links []models.CandidateLink, concurrency int, reporter Reporter) ([]*models.Profile, int, error) {
	profiles := make([]*models.Profile, len(links))
	if len(links) == 0 {
		return profiles, 0, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		done   int
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, link := range links {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			page, err := r.Renderer.Render(gctx, link.URL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger().WithError(err).WithField("url", link.URL).Warn("failed to render profile")
				mu.Lock()
				failed++
				mu.Unlock()
				reporter.ProfileFailed(link.URL, err)
				return nil
			}

			record := contacts.Extract(page.Content())
			title := link.Title
			if title == "" {
				title = page.Title
			}
			profile := &models.Profile{
				Title:     title,
				URL:       link.URL,
				Source:    SourceLinkedIn,
				Emails:    record.Emails,
				Phones:    record.Phones,
				Page:      link.Page,
				ScrapedAt: time.Now(),
			}
			profiles[i] = profile

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			reporter.ProfileDone(profile, n, len(links))
			return nil
		})
	}

	err := g.Wait()
	return profiles, failed, err
}

func (r *Runner) reporter() Reporter {
	if r.Reporter == nil {
		return nopReporter{}
	}
	return r.Reporter
}

func (r *Runner) logger() *logrus.Logger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// Stats summarises a set of profiles
type Stats struct {
	Total      int `json:"total"`
	WithEmails int `json:"with_emails"`
	WithPhones int `json:"with_phones"`
	Complete   int `json:"complete"` // both an email and a phone
	Emails     int `json:"emails"`
	Phones     int `json:"phones"`
}

// Summary counts profiles with contacts
func Summary(profiles []*models.Profile) Stats {
	var s Stats
	for _, p := range profiles {
		s.Total++
		s.Emails += len(p.Emails)
		s.Phones += len(p.Phones)
		if p.HasEmails() {
			s.WithEmails++
		}
		if p.HasPhones() {
			s.WithPhones++
		}
		if p.HasEmails() && p.HasPhones() {
			s.Complete++
		}
	}
	return s
}
