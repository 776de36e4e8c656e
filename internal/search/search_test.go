package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		input    string
		expected Engine
		wantErr  bool
	}{
		{"google", Google, false},
		{"", Google, false},
		{"Bing", Bing, false},
		{" duckduckgo ", DuckDuckGo, false},
		{"ddg", DuckDuckGo, false},
		{"yandex", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEngine(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedEngine))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t,
		`site:linkedin.com/in/ "data scientist" ("@gmail.com" OR "@yahoo.com") "+91"`,
		BuildQuery("data scientist", nil))

	assert.Equal(t,
		`site:linkedin.com/in/ "hr manager" ("@gmail.com" OR "@outlook.com") "+91"`,
		BuildQuery("  hr manager ", []string{"@gmail.com", "outlook.com", " "}))

	assert.Equal(t,
		`site:linkedin.com/in/ "devops" ("@gmail.com" OR "@yahoo.com") "+91"`,
		BuildQuery("devops", []string{""}))
}

func TestPageURL(t *testing.T) {
	google, _ := NewProvider(Google)
	assert.Equal(t, "https://www.google.com/search?q=site%3Alinkedin.com%2Fin%2F+go", google.PageURL("site:linkedin.com/in/ go", 1))
	assert.Contains(t, google.PageURL("go", 3), "start=20")

	bing, _ := NewProvider(Bing)
	assert.NotContains(t, bing.PageURL("go", 1), "first=")
	assert.Contains(t, bing.PageURL("go", 2), "first=11")

	ddg, _ := NewProvider(DuckDuckGo)
	assert.Contains(t, ddg.PageURL("go", 2), "s=30")
	assert.Contains(t, ddg.PageURL("go", 2), "html.duckduckgo.com")
}

const googleFixture = `<html><body><div id="search">
<div class="tF2Cxc"><a href="https://in.linkedin.com/in/rahul-sharma"><h3>Rahul Sharma - Data Scientist</h3></a>
  <div class="VwiC3b">Bengaluru · rahul@gmail.com · +91 98765 12345</div></div>
<div class="tF2Cxc"><a href="https://www.linkedin.com/company/acme"><h3>Acme   Corp</h3></a></div>
<div class="tF2Cxc"><h3>No link here</h3></div>
</div></body></html>`

func TestGoogleParseResults(t *testing.T) {
	p, err := NewProvider(Google)
	require.NoError(t, err)

	links, err := p.ParseResults(googleFixture)
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, "Rahul Sharma - Data Scientist", links[0].Title)
	assert.Equal(t, "https://in.linkedin.com/in/rahul-sharma", links[0].URL)
	assert.Contains(t, links[0].Snippet, "rahul@gmail.com")
	assert.Equal(t, "Acme Corp", links[1].Title)
}

func TestGoogleParseResultsFallback(t *testing.T) {
	html := `<div class="g"><a href="/url?q=https://www.linkedin.com/in/asha&amp;sa=U"><h3>Asha</h3></a></div>`
	p, _ := NewProvider(Google)

	links, err := p.ParseResults(html)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "/url?q=https://www.linkedin.com/in/asha&sa=U", links[0].URL)
}

func TestBingParseResults(t *testing.T) {
	html := `<ol id="b_results">
<li class="b_algo"><h2><a href="https://www.linkedin.com/in/priya-nair">Priya Nair | LinkedIn</a></h2>
<div class="b_caption"><p>Pune, Maharashtra</p></div></li>
</ol>`
	p, _ := NewProvider(Bing)

	links, err := p.ParseResults(html)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Priya Nair | LinkedIn", links[0].Title)
	assert.Equal(t, "Pune, Maharashtra", links[0].Snippet)
}

func TestDuckDuckGoParseResults(t *testing.T) {
	html := `<div class="results">
<div class="result"><h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.linkedin.com%2Fin%2Fjane">Jane</a></h2>
<a class="result__snippet">Hyderabad</a></div>
</div>`
	p, _ := NewProvider(DuckDuckGo)

	links, err := p.ParseResults(html)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Jane", links[0].Title)
	assert.Equal(t, "//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.linkedin.com%2Fin%2Fjane", links[0].URL)
}

func TestParseResultsEmptyPage(t *testing.T) {
	for _, engine := range Engines() {
		p, err := NewProvider(engine)
		require.NoError(t, err)

		links, err := p.ParseResults("")
		require.NoError(t, err)
		assert.Empty(t, links, engine)
	}
}

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		blocked bool
	}{
		{"google sorry form", `<form id="captcha-form" action="index"><div class="g-recaptcha"></div></form>`, true},
		{"sorry redirect form", `<form action="https://www.google.com/sorry/index" method="post"></form>`, true},
		{"traffic notice", `<p>Our systems have detected
			Unusual Traffic from your computer network.</p>`, true},
		{"recaptcha iframe", `<iframe src="https://www.google.com/recaptcha/api2/anchor"></iframe>`, true},
		{"duckduckgo challenge", `<div class="anomaly-modal__modal">Please solve the challenge below</div>`, true},
		{"regular results", googleFixture, false},
		{"captcha in query and snippet", `<form action="/search"><input name="q" value="captcha engineer site:linkedin.com/in/"></form>
			<div class="g"><a href="https://www.linkedin.com/in/asha"><h3>Asha | CAPTCHA engineer</h3></a>
			<span>Built reCAPTCHA and hCaptcha integrations. Mentions unusual traffic spikes.</span></div>`, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DetectBlock(tt.html)
			if tt.blocked {
				assert.ErrorIs(t, err, ErrCaptcha)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
