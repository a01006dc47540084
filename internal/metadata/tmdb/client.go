package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cinefinder/cinefinder/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config:  cfg,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Region returns the configured watch-provider region.
func (c *Client) Region() string {
	return c.config.Region
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}
	return c.get(ctx, "/configuration", nil, &result)
}

// SearchMovies searches for movies by title in the configured language.
// Results keep TMDB's relevance order.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]MovieResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	c.setLanguage(params)

	var response SearchMoviesResponse
	if err := c.get(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Movie search completed")

	return response.Results, nil
}

// SearchPeople searches for actors, directors and other crew by name.
func (c *Client) SearchPeople(ctx context.Context, query string) ([]PersonResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	c.setLanguage(params)

	var response SearchPeopleResponse
	if err := c.get(ctx, "/search/person", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Person search completed")

	return response.Results, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	params := url.Values{}
	c.setLanguage(params)

	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", details.Title).
		Msg("Got movie details")

	return &details, nil
}

// GetMovieCredits gets cast and crew for a movie.
func (c *Client) GetMovieCredits(ctx context.Context, id int) (*CreditsResponse, error) {
	var credits CreditsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// GetMovieVideos gets trailers, teasers and clips for a movie in the
// configured language.
func (c *Client) GetMovieVideos(ctx context.Context, id int) ([]Video, error) {
	params := url.Values{}
	c.setLanguage(params)

	var response VideosResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), params, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// GetWatchProviders gets the streaming offers for a movie in the configured
// region. A movie with no offers in that region yields an empty region.
func (c *Client) GetWatchProviders(ctx context.Context, id int) (*WatchProviderRegion, error) {
	var response WatchProvidersResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), nil, &response); err != nil {
		return nil, err
	}

	region := response.Results[c.config.Region]
	c.logger.Debug().
		Int("id", id).
		Str("region", c.config.Region).
		Int("flatrate", len(region.Flatrate)).
		Int("rent", len(region.Rent)).
		Int("buy", len(region.Buy)).
		Msg("Got watch providers")

	return &region, nil
}

// GetPersonMovieCredits gets a person's filmography as cast and crew.
func (c *Client) GetPersonMovieCredits(ctx context.Context, personID int) (*PersonMovieCredits, error) {
	params := url.Values{}
	c.setLanguage(params)

	var credits PersonMovieCredits
	if err := c.get(ctx, fmt.Sprintf("/person/%d/movie_credits", personID), params, &credits); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("personId", personID).
		Int("cast", len(credits.Cast)).
		Int("crew", len(credits.Crew)).
		Msg("Got person movie credits")

	return &credits, nil
}

func (c *Client) setLanguage(params url.Values) {
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}
}

// get performs an authenticated GET against path and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.config.APIKey)

	return c.doRequest(ctx, c.config.BaseURL+path, params, result)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Warn().
				Int("status", resp.StatusCode).
				Str("url", endpoint).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
