// Package search builds LinkedIn profile queries and parses organic results
// from search engine result pages.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/contactscout/pkg/models"
)

// Engine names a supported search engine
type Engine string

const (
	Google     Engine = "google"
	Bing       Engine = "bing"
	DuckDuckGo Engine = "duckduckgo"
)

// ErrUnsupportedEngine is returned for engine names outside Engines()
var ErrUnsupportedEngine = errors.New("unsupported search engine")

// Engines lists the supported engines in display order
func Engines() []Engine {
	return []Engine{Google, Bing, DuckDuckGo}
}

// ParseEngine maps a config or flag value onto an Engine
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google", "":
		return Google, nil
	case "bing":
		return Bing, nil
	case "duckduckgo", "ddg":
		return DuckDuckGo, nil
	default:
		return "", fmt.Errorf("%w: %q (available: google, bing, duckduckgo)", ErrUnsupportedEngine, name)
	}
}

func (e Engine) String() string {
	return string(e)
}

// Provider knows how to page through one engine's results
type Provider interface {
	Engine() Engine
	// PageURL returns the results URL for a 1-based page number.
	PageURL(query string, page int) string
	ParseResults(html string) ([]models.CandidateLink, error)
}

// NewProvider returns the Provider for an engine
func NewProvider(engine Engine) (Provider, error) {
	switch engine {
	case Google:
		return &googleProvider{}, nil
	case Bing:
		return &bingProvider{}, nil
	case DuckDuckGo:
		return &duckDuckGoProvider{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, engine)
	}
}
