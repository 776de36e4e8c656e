package profileurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"profile with trailing slash", "https://www.linkedin.com/in/jane-doe-12345/", true},
		{"company page", "https://www.linkedin.com/company/acme/", false},
		{"google redirect", "https://www.google.com/url?q=https://www.linkedin.com/in/jane-doe", true},
		{"relative google redirect", "/url?q=https://www.linkedin.com/in/arjun-m&sa=U&ved=2ah", true},
		{"duckduckgo redirect", "https://duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.linkedin.com%2Fin%2Fpriya-nair&rut=abc", true},
		{"bing redirect", "https://www.bing.com/ck/a?!&&p=abc&u=a1aHR0cHM6Ly93d3cubGlua2VkaW4uY29tL2luL3ByaXlhLW5haXI&ntb=1", true},
		{"country subdomain", "https://in.linkedin.com/in/rahul-sharma-4b1a2c3", true},
		{"tracking query", "https://www.linkedin.com/in/jane-doe?trk=people-guest_people_search-card", true},
		{"percent encoded slug", "https://www.linkedin.com/in/jos%C3%A9-garcia", true},
		{"missing scheme", "www.linkedin.com/in/jane_doe", true},
		{"relative profile path", "/in/jane-doe", true},
		{"nested profile section", "https://www.linkedin.com/in/jane-doe/details/experience/", false},
		{"post", "https://www.linkedin.com/posts/jane_activity-7012345", false},
		{"article", "https://www.linkedin.com/pulse/hiring-now-jane-doe", false},
		{"job posting", "https://www.linkedin.com/jobs/view/12345", false},
		{"other platform", "https://www.facebook.com/linkedin.com/in/jane", false},
		{"unresolved wrapper", "https://www.google.com/url?sa=t&target=https://www.linkedin.com/in/jane", false},
		{"google cache", "https://webcache.googleusercontent.com/search?q=cache:abc:https://www.linkedin.com/in/jane", false},
		{"empty slug", "https://www.linkedin.com/in/", false},
		{"space in slug", "https://www.linkedin.com/in/jane doe", false},
		{"lookalike host", "https://linkedin.com.evil.io/in/jane", false},
		{"slug starting with login", "https://www.linkedin.com/in/loginov-ivan", true},
		{"slug starting with signup", "https://www.linkedin.com/in/signupman/", true},
		{"slug starting with authwall", "https://www.linkedin.com/in/authwaller", true},
		{"authwall redirect", "https://www.linkedin.com/authwall?trk=gf&sessionRedirect=https://www.linkedin.com/in/jane", false},
		{"login redirect", "https://www.linkedin.com/login/?session_redirect=https://www.linkedin.com/in/jane", false},
		{"signup redirect", "https://www.linkedin.com/signup?redirect=https://in.linkedin.com/in/jane", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"garbage", "%%%://??", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValid(tt.url))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"https://www.google.com/url?q=https://www.linkedin.com/in/jane-doe", "https://www.linkedin.com/in/jane-doe"},
		{"https://www.linkedin.com/in/jane-doe/?originalSubdomain=in", "https://www.linkedin.com/in/jane-doe/"},
		{"www.linkedin.com/in/jane_doe#about", "https://www.linkedin.com/in/jane_doe"},
		{"  https://in.linkedin.com/in/rahul  ", "https://in.linkedin.com/in/rahul"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUnwrap(t *testing.T) {
	nested := "https://www.google.com/url?q=" +
		"https%3A%2F%2Fduckduckgo.com%2Fl%2F%3Fuddg%3Dhttps%253A%252F%252Fwww.linkedin.com%252Fin%252Fjane"
	assert.Equal(t, "https://www.linkedin.com/in/jane", Unwrap(nested))

	direct := "https://www.linkedin.com/in/jane?url=https://example.org"
	assert.Equal(t, direct, Unwrap(direct))

	assert.Equal(t, "https://www.bing.com/ck/a?u=a1%%%", Unwrap("https://www.bing.com/ck/a?u=a1%%%"))
}
