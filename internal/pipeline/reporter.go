package pipeline

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/khrees2412/contactscout/pkg/models"
)

// Reporter receives progress events from a run. Methods may be called from
// several goroutines.
type Reporter interface {
	SetPage(page, maxPages int)
	SetStatus(status string)
	ProfileDone(p *models.Profile, done, total int)
	ProfileFailed(url string, err error)
	Complete(stats Stats)
	Error(err error)
}

// Progress prints single-line terminal progress
type Progress struct {
	mu       sync.Mutex
	out      io.Writer
	page     int
	maxPages int
	status   string
}

// NewProgress returns a Progress writing to out, or stdout when out is nil
func NewProgress(out io.Writer) *Progress {
	if out == nil {
		out = os.Stdout
	}
	return &Progress{out: out}
}

func (p *Progress) SetPage(page, maxPages int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = page
	p.maxPages = maxPages
	p.status = "searching"
	fmt.Fprintf(p.out, "\r\033[K📄 Page %d of %d: searching...", page, maxPages)
}

func (p *Progress) SetStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	fmt.Fprintf(p.out, "\r\033[K⏳ Page %d: %s...", p.page, status)
}

func (p *Progress) ProfileDone(profile *models.Profile, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r\033[K✓ [%d/%d] %s: %d emails, %d phones\n",
		done, total, truncate(profile.Title, 50), len(profile.Emails), len(profile.Phones))
}

func (p *Progress) ProfileFailed(url string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r\033[K⚠️  %s: %v\n", url, err)
}

func (p *Progress) Complete(stats Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = "complete"
	fmt.Fprintf(p.out, "\r\033[K✓ Done: %d profiles, %d with emails, %d with phones\n",
		stats.Total, stats.WithEmails, stats.WithPhones)
}

func (p *Progress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = "error"
	fmt.Fprintf(p.out, "\r\033[K✗ Page %d: %v\n", p.page, err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// nopReporter discards events
type nopReporter struct{}

func (nopReporter) SetPage(int, int) {}
func (nopReporter) SetStatus(string) {}
func (nopReporter) ProfileDone(*models.Profile, int, int) {}
func (nopReporter) ProfileFailed(string, error) {}
func (nopReporter) Complete(Stats) {}
func (nopReporter) Error(error) {}
