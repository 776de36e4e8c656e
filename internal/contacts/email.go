package contacts

import (
	"regexp"
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

const (
	minEmailLength = 5
	maxEmailLength = 50
)

var emailPatterns = []Pattern{
	{
		Name: "standard",
		Expr: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	},
	{
		// Markup sometimes splits an address around the @ across tags.
		Name: "spaced",
		Expr: regexp.MustCompile(`[A-Za-z0-9._%+-]+\s*@\s*[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	},
	{
		Name: "bracket_at",
		Expr: regexp.MustCompile(`(?i)[a-z0-9._%+-]+\s*\[at\]\s*[a-z0-9.-]+\.[a-z]{2,}\b`),
	},
	{
		Name: "bracket_at_dot",
		Expr: regexp.MustCompile(`(?i)([a-z0-9._%+-]+)\s*\[at\]\s*([a-z0-9.-]+)\s*\[dot\]\s*([a-z]{2,})`),
		Join: func(g []string) string {
			return g[1] + "@" + g[2] + "." + g[3]
		},
	},
}

var (
	atToken    = regexp.MustCompile(`(?i)\s*\[at\]\s*`)
	dotToken   = regexp.MustCompile(`(?i)\s*\[dot\]\s*`)
	whitespace = regexp.MustCompile(`\s+`)

	canonicalEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// blockedEmailMarkers are platform infrastructure, competing platforms,
// automated senders and transactional or placeholder providers. They are
// matched as substrings of the whole address.
var blockedEmailMarkers = []string{
	"licdn.com",
	"linkedin.com",
	"static",
	"cdn",
	"img",
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"youtube.com",
	"localhost",
	"127.0.0.1",
	"noreply",
	"no-reply",
	"donotreply",
	"do-not-reply",
	"sentry.io",
	"wixpress.com",
	"sendgrid.net",
	"mailchimp",
	"placeholder.com",
	"gravatar.com",
	"example.com",
	"test.com",
}

var placeholderWords = []string{"example", "test", "sample", "dummy", "fake"}

// assetSuffixes catch retina asset names like logo@2x.png.
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}

var emailRules = []Rule{
	{Name: "blocked_domain", Reject: containsAny(blockedEmailMarkers)},
	{Name: "asset_suffix", Reject: hasAssetSuffix},
	{Name: "placeholder", Reject: containsAny(placeholderWords)},
	{Name: "length", Reject: badEmailLength},
	{Name: "syntax", Reject: badEmailSyntax},
	{Name: "numeric_local_part", Reject: numericLocalPart},
}

// ExtractEmails returns the valid email addresses found in text. Addresses
// differing only in case are reported once, with the casing of their first
// occurrence.
func ExtractEmails(text string) []string {
	emails := []string{}
	if text == "" {
		return emails
	}

	seen := make(map[string]bool)
	for _, p := range emailPatterns {
		for _, raw := range p.candidates(text) {
			candidate := normalizeEmail(raw)
			key := strings.ToLower(candidate)
			if seen[key] {
				continue
			}
			seen[key] = true

			if _, rejected := RejectEmail(candidate); rejected {
				continue
			}
			emails = append(emails, candidate)
		}
	}
	return emails
}

// RejectEmail reports the first filter rule that discards candidate.
func RejectEmail(candidate string) (rule string, rejected bool) {
	return firstRejecting(emailRules, candidate)
}

// normalizeEmail turns obfuscation tokens back into punctuation and drops
// any whitespace left inside the address.
func normalizeEmail(raw string) string {
	s := atToken.ReplaceAllString(raw, "@")
	s = dotToken.ReplaceAllString(s, ".")
	return whitespace.ReplaceAllString(s, "")
}

func hasAssetSuffix(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func badEmailLength(candidate string) bool {
	return len(candidate) < minEmailLength || len(candidate) > maxEmailLength
}

func badEmailSyntax(candidate string) bool {
	if !canonicalEmail.MatchString(candidate) {
		return true
	}
	_, err := emailaddress.Parse(candidate)
	return err != nil
}

func numericLocalPart(candidate string) bool {
	at := strings.LastIndexByte(candidate, '@')
	if at < 0 {
		return true
	}
	for _, r := range candidate[:at] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
