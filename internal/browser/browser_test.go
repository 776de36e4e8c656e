package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileHTML = `<html><head>
<title>Rahul Sharma - Data Scientist | LinkedIn</title>
<meta name="description" content="Contact: rahul.sharma@gmail.com, +91 98765 12345">
</head><body><h1>Rahul Sharma</h1></body></html>`

func TestNewPageReadsTitleAndDescription(t *testing.T) {
	page := newPage("https://www.linkedin.com/in/rahul", profileHTML, "")

	assert.Equal(t, "Rahul Sharma - Data Scientist | LinkedIn", page.Title)
	assert.Equal(t, "Contact: rahul.sharma@gmail.com, +91 98765 12345", page.MetaDescription)
}

func TestNewPageKeepsReportedTitle(t *testing.T) {
	page := newPage("u", profileHTML, "  Reported  ")
	assert.Equal(t, "Reported", page.Title)
}

func TestNewPageOpenGraphFallback(t *testing.T) {
	page := newPage("u", `<meta property="og:description" content="og text">`, "")
	assert.Equal(t, "og text", page.MetaDescription)
}

func TestPageContent(t *testing.T) {
	p := &Page{HTML: "<p>x</p>", Title: "T", MetaDescription: "D"}
	assert.Equal(t, "<p>x</p> T D", p.Content())

	bare := &Page{HTML: "<p>x</p>"}
	assert.Equal(t, "<p>x</p>", bare.Content())
}

func TestNewUnsupportedBackend(t *testing.T) {
	_, err := New(Options{Backend: "selenium"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported browser backend")
}

func TestStaticRenderer(t *testing.T) {
	var (
		mu    sync.Mutex
		gotUA string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUA = r.UserAgent()
		mu.Unlock()
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	r, err := New(Options{Backend: Static, UserAgent: "contactscout-test"})
	require.NoError(t, err)
	defer r.Close()

	page, err := r.Render(context.Background(), server.URL+"/in/rahul")
	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, "contactscout-test", gotUA)
	mu.Unlock()
	assert.Contains(t, page.HTML, "<h1>Rahul Sharma</h1>")
	assert.Contains(t, page.Content(), "rahul.sharma@gmail.com")

	_, err = r.Render(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}

func TestStaticRendererCancelled(t *testing.T) {
	r, err := New(Options{Backend: Static})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticRendererCancelDuringFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	r, err := New(Options{Backend: Static, PageTimeout: time.Minute})
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	begin := time.Now()
	_, err = r.Render(ctx, server.URL+"/in/slow")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(begin), 10*time.Second, "fetch should stop once the context is cancelled")
}
