package search

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrCaptcha means the engine served a CAPTCHA or traffic interstitial
// instead of results. Runs stop when they see it.
var ErrCaptcha = errors.New("search engine returned a CAPTCHA page, try again later")

// blockSelectors match elements that only exist on interstitial pages, never
// in result snippets or the echoed query.
var blockSelectors = []string{
	"form#captcha-form",
	`form[action*="/sorry/"]`,
	`form[action*="captcha"]`,
	"div.g-recaptcha",
	`iframe[src*="recaptcha"]`,
	`div[class*="anomaly-modal"]`,
	"form#challenge-form",
}

var blockPhrases = []string{
	"our systems have detected unusual traffic",
	"please solve the challenge below",
}

// DetectBlock returns ErrCaptcha when a results page is a block page
func DetectBlock(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	for _, sel := range blockSelectors {
		if doc.Find(sel).Length() > 0 {
			return ErrCaptcha
		}
	}

	text := strings.Join(strings.Fields(strings.ToLower(doc.Find("body").Text())), " ")
	for _, phrase := range blockPhrases {
		if strings.Contains(text, phrase) {
			return ErrCaptcha
		}
	}
	return nil
}
