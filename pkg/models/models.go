package models

import "time"

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
	RunStatusBlocked   = "blocked"
)

// CandidateLink is a single organic result parsed from a search results page
type CandidateLink struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Page    int    `json:"page"`
}

// Profile is one rendered profile page and the contacts found on it
type Profile struct {
	ID        int       `json:"id"`
	RunID     string    `json:"run_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Emails    []string  `json:"emails"`
	Phones    []string  `json:"phones"`
	Page      int       `json:"page"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// HasEmails reports whether at least one email was found
func (p *Profile) HasEmails() bool {
	return len(p.Emails) > 0
}

// HasPhones reports whether at least one phone number was found
func (p *Profile) HasPhones() bool {
	return len(p.Phones) > 0
}

// Run is a single scrape invocation
type Run struct {
	ID           string     `json:"id"` // uuid
	Keyword      string     `json:"keyword"`
	Query        string     `json:"query"`
	Engine       string     `json:"engine"`
	Status       string     `json:"status"` // running, completed, failed, cancelled, blocked
	ProfileCount int        `json:"profile_count"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"` // nil while running
}
