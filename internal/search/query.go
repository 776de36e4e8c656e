package search

import (
	"fmt"
	"strings"
)

// DefaultEmailProviders are the mail domains OR-ed into the query when none
// are configured
var DefaultEmailProviders = []string{"@gmail.com", "@yahoo.com"}

// BuildQuery builds the site-restricted query used to find profiles that
// mention a keyword, a personal mail provider and an Indian country code.
func BuildQuery(keyword string, providers []string) string {
	if len(providers) == 0 {
		providers = DefaultEmailProviders
	}

	quoted := make([]string, 0, len(providers))
	for _, p := range providers {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "@") {
			p = "@" + p
		}
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}
	if len(quoted) == 0 {
		return BuildQuery(keyword, DefaultEmailProviders)
	}

	return fmt.Sprintf(`site:linkedin.com/in/ "%s" (%s) "+91"`,
		strings.TrimSpace(keyword), strings.Join(quoted, " OR "))
}
