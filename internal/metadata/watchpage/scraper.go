// Package watchpage extracts per-provider direct links from the public TMDB
// watch page of a movie.
package watchpage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const userAgent = "Mozilla/5.0"

// Scraper fetches TMDB watch pages.
type Scraper struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     zerolog.Logger
}

// NewScraper creates a scraper resolving relative links against baseURL
// (normally https://www.themoviedb.org).
func NewScraper(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Scraper, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid watch page base URL: %w", err)
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    u,
		logger:     logger.With().Str("component", "watchpage").Logger(),
	}, nil
}

// DirectLinks returns provider name -> absolute URL for every anchor on the
// page whose href starts with /watch. Anchors with no text are skipped.
func (s *Scraper) DirectLinks(ctx context.Context, pageURL string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := s.extract(doc)
	s.logger.Debug().Str("url", pageURL).Int("links", len(links)).Msg("Scraped watch page")
	return links, nil
}

func (s *Scraper) extract(doc *goquery.Document) map[string]string {
	links := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "/watch") {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links[name] = s.baseURL.ResolveReference(ref).String()
	})
	return links
}
