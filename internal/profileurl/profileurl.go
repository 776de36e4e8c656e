// Package profileurl decides whether a link surfaced by a search engine points
// at an individual LinkedIn profile.
package profileurl

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

const (
	profileSegment = "linkedin.com/in/"
	maxUnwrapDepth = 3
)

// excludedSegments mark organisation pages, content pages, other platforms and
// redirect wrappers that were not resolved.
var excludedSegments = []string{
	"/company/",
	"/jobs/",
	"/job/",
	"/posts/",
	"/pulse/",
	"/feed/",
	"/groups/",
	"/events/",
	"/school/",
	"/showcase/",
	"/directory/",
	"/topic/",
	"/learning/",
	"/search/",
	"/pub/dir/",
	"/title/",
	"/redir/",
	"/amp/",
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"youtube.com",
	"google.com/url",
	"/url?",
	"webcache.googleusercontent",
	"translate.goog",
}

// gatePage matches LinkedIn's sign-in walls as whole path segments, so slugs
// such as loginov-ivan are not mistaken for them.
var gatePage = regexp.MustCompile(`(?i)/(?:signup|login|authwall)(?:[/?#]|$)`)

var profileShape = regexp.MustCompile(`(?i)^https?://(?:[a-z0-9-]+\.)*linkedin\.com/in/(?:[a-z0-9_-]|%[0-9a-f]{2})+/?$`)

// redirectParams carry the real destination in search engine click-through
// links: Google (url, q), DuckDuckGo (uddg) and Bing (u).
var redirectParams = []string{"url", "q", "uddg", "u"}

// IsValid reports whether raw is an individual profile URL. It never panics;
// empty or malformed input is simply not valid.
func IsValid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}

// Normalize unwraps redirect links, makes the URL absolute and validates it.
// The returned URL has no query string or fragment.
func Normalize(raw string) (string, bool) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", false
	}

	candidate = absolute(Unwrap(candidate))
	lower := strings.ToLower(candidate)

	if !strings.Contains(lower, profileSegment) {
		return "", false
	}
	for _, segment := range excludedSegments {
		if strings.Contains(lower, segment) {
			return "", false
		}
	}
	if gatePage.MatchString(lower) {
		return "", false
	}

	candidate = stripQuery(candidate)
	if !profileShape.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

// Unwrap follows search engine click-through wrappers until it reaches a URL
// that is not one. Anything that cannot be unwrapped is returned trimmed.
func Unwrap(raw string) string {
	current := strings.TrimSpace(raw)
	for i := 0; i < maxUnwrapDepth; i++ {
		next, ok := redirectTarget(current)
		if !ok {
			break
		}
		current = next
	}
	return current
}

func redirectTarget(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || isLinkedInHost(u.Hostname()) {
		return "", false
	}

	query := u.Query()
	for _, param := range redirectParams {
		value := strings.TrimSpace(query.Get(param))
		if value == "" {
			continue
		}
		if param == "u" {
			value = decodeBingTarget(value)
		}
		if isAbsoluteHTTP(value) {
			return value, true
		}
	}
	return "", false
}

// decodeBingTarget decodes the "a1" + base64url form Bing uses in /ck/a links.
func decodeBingTarget(value string) string {
	if !strings.HasPrefix(value, "a1") {
		return value
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(value[2:], "="))
	if err != nil {
		return value
	}
	return string(decoded)
}

func isLinkedInHost(host string) bool {
	host = strings.ToLower(host)
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

func isAbsoluteHTTP(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func absolute(s string) string {
	switch {
	case isAbsoluteHTTP(s):
		return s
	case strings.HasPrefix(s, "//"):
		return "https:" + s
	case strings.HasPrefix(s, "/in/"):
		return "https://www.linkedin.com" + s
	case strings.HasPrefix(s, "/"):
		return s
	default:
		return "https://" + s
	}
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}
