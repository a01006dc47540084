package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/config"
)

var (
	ErrBaseURLMissing   = errors.New("gateway base URL is not configured")
	ErrUnexpectedStatus = errors.New("gateway returned an unexpected status")
)

const maxResponseBodyBytes = 8 << 20

// Client calls the search gateway's /search and /suggest endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a gateway client. The base URL has no default.
func NewClient(cfg config.GatewayConfig, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLMissing
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base URL: %w", err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger.With().Str("component", "gateway-client").Logger(),
	}, nil
}

// BaseURL returns the configured gateway root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search runs a free-text search: GET /search?q=<text>&type=<type>.
func (c *Client) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("type", string(ParseSearchType(string(q.Type))))
	return c.search(ctx, params)
}

// Movie looks a movie up by TMDB id: GET /search?id=<id>&type=movie.
func (c *Client) Movie(ctx context.Context, id int) (SearchResult, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(id))
	params.Set("type", string(TypeMovie))
	return c.search(ctx, params)
}

// Filmography fetches the movies of a person or director by name.
// sortBy is sent only for person searches.
func (c *Client) Filmography(ctx context.Context, name string, t SearchType, sortBy SortBy) (SearchResult, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("type", string(t))
	if t == TypePerson && sortBy != "" {
		params.Set("sort_by", string(sortBy))
	}
	return c.search(ctx, params)
}

// Suggest returns autocomplete candidates: GET /suggest?q=<text>&type=<type>.
func (c *Client) Suggest(ctx context.Context, q SearchQuery) ([]Suggestion, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("type", string(ParseSearchType(string(q.Type))))

	body, err := c.get(ctx, "/suggest", params)
	if err != nil {
		return nil, err
	}

	var resp SuggestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	return resp.Results, nil
}

// Ping checks that the gateway answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/health", nil)
	return err
}

func (c *Client) search(ctx context.Context, params url.Values) (SearchResult, error) {
	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return SearchResult{}, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Warn().Err(err).Str("params", params.Encode()).Msg("Malformed gateway response")
		return SearchResult{}, err
	}
	return result, nil
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("Gateway request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("Gateway returned error status")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return body, nil
}
