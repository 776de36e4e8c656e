package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/khrees2412/contactscout/pkg/models"
)

const resultsPerEnginePage = 10

// selectors describes where one engine puts organic results
type selectors struct {
	result  []string // tried in order until one matches
	title   string
	link    string
	snippet string
}

func parseWith(html string, sel selectors) ([]models.CandidateLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	links := []models.CandidateLink{}
	for _, resultSel := range sel.result {
		nodes := doc.Find(resultSel)
		if nodes.Length() == 0 {
			continue
		}
		nodes.Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Find(sel.link).First().Attr("href")
			href = strings.TrimSpace(href)
			if !ok || href == "" {
				return
			}
			links = append(links, models.CandidateLink{
				Title:   collapse(s.Find(sel.title).First().Text()),
				URL:     href,
				Snippet: collapse(s.Find(sel.snippet).First().Text()),
			})
		})
		break
	}
	return links, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pageOffset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

type googleProvider struct{}

func (p *googleProvider) Engine() Engine { return Google }

func (p *googleProvider) PageURL(query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	if offset := pageOffset(page, resultsPerEnginePage); offset > 0 {
		v.Set("start", strconv.Itoa(offset))
	}
	return "https://www.google.com/search?" + v.Encode()
}

func (p *googleProvider) ParseResults(html string) ([]models.CandidateLink, error) {
	return parseWith(html, selectors{
		result:  []string{"div.tF2Cxc", "div.g"},
		title:   "h3",
		link:    "a[href]",
		snippet: "div.VwiC3b",
	})
}

type bingProvider struct{}

func (p *bingProvider) Engine() Engine { return Bing }

func (p *bingProvider) PageURL(query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	if offset := pageOffset(page, resultsPerEnginePage); offset > 0 {
		v.Set("first", strconv.Itoa(offset+1))
	}
	return "https://www.bing.com/search?" + v.Encode()
}

func (p *bingProvider) ParseResults(html string) ([]models.CandidateLink, error) {
	return parseWith(html, selectors{
		result:  []string{"li.b_algo"},
		title:   "h2",
		link:    "h2 a[href]",
		snippet: ".b_caption p",
	})
}

// DuckDuckGo's HTML endpoint serves thirty results per page
const duckDuckGoPageSize = 30

type duckDuckGoProvider struct{}

func (p *duckDuckGoProvider) Engine() Engine { return DuckDuckGo }

func (p *duckDuckGoProvider) PageURL(query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	if offset := pageOffset(page, duckDuckGoPageSize); offset > 0 {
		v.Set("s", strconv.Itoa(offset))
		v.Set("dc", strconv.Itoa(offset+1))
	}
	return "https://html.duckduckgo.com/html/?" + v.Encode()
}

func (p *duckDuckGoProvider) ParseResults(html string) ([]models.CandidateLink, error) {
	return parseWith(html, selectors{
		result:  []string{"div.result"},
		title:   "a.result__a",
		link:    "a.result__a",
		snippet: ".result__snippet",
	})
}
