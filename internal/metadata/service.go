package metadata

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cinefinder/cinefinder/internal/config"
	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/metadata/mock"
	"github.com/cinefinder/cinefinder/internal/metadata/tmdb"
	"github.com/cinefinder/cinefinder/internal/metadata/watchpage"
)

var (
	ErrNoProvidersConfigured = errors.New("no metadata providers configured")
	ErrNotFound              = errors.New("metadata not found")
)

const (
	unknownDirector   = "Sconosciuto"
	maxCast           = 3
	maxSuggestions    = 5
	expandConcurrency = 4
	youtubeEmbedBase  = "https://www.youtube.com/embed/"
)

// Service assembles gateway results from TMDB lookups.
type Service struct {
	tmdb           TMDBClient
	scraper        LinkScraper
	maxListResults int
	logger         zerolog.Logger
}

// NewService creates a metadata service with real API clients. When
// tmdb.use_mock is set the bundled offline catalog is used instead.
func NewService(cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	var client TMDBClient
	if cfg.TMDB.UseMock {
		client = mock.NewTMDBClient()
	} else {
		client = tmdb.NewClient(cfg.TMDB, logger)
	}

	var scraper LinkScraper
	if cfg.TMDB.ScrapeWatchPage && !cfg.TMDB.UseMock {
		s, err := watchpage.NewScraper(cfg.TMDB.WebBaseURL, time.Duration(cfg.TMDB.Timeout)*time.Second, logger)
		if err != nil {
			return nil, err
		}
		scraper = s
	}

	return NewServiceWithClients(client, scraper, cfg.Gateway.MaxListResults, logger), nil
}

// NewServiceWithClients creates a metadata service with custom clients (for testing/mocking).
// scraper may be nil, in which case providers link to the TMDB watch page.
func NewServiceWithClients(tmdbClient TMDBClient, scraper LinkScraper, maxListResults int, logger zerolog.Logger) *Service {
	if maxListResults <= 0 {
		maxListResults = 10
	}
	return &Service{
		tmdb:           tmdbClient,
		scraper:        scraper,
		maxListResults: maxListResults,
		logger:         logger.With().Str("component", "metadata").Logger(),
	}
}

// ProviderName returns the name of the active TMDB client.
func (s *Service) ProviderName() string {
	return s.tmdb.Name()
}

// IsConfigured reports whether TMDB lookups can be made.
func (s *Service) IsConfigured() bool {
	return s.tmdb.IsConfigured()
}

// Test checks TMDB connectivity.
func (s *Service) Test(ctx context.Context) error {
	if !s.IsConfigured() {
		return ErrNoProvidersConfigured
	}
	return s.tmdb.Test(ctx)
}

// Search resolves a free-text query. Movie searches yield the first match
// fully expanded; person and director searches yield a filmography.
func (s *Service) Search(ctx context.Context, query string, t gateway.SearchType, sortBy gateway.SortBy) (gateway.SearchResult, error) {
	if !s.IsConfigured() {
		return gateway.SearchResult{}, ErrNoProvidersConfigured
	}

	if t.IsPeople() {
		list, err := s.Filmography(ctx, query, t, sortBy)
		if err != nil {
			return gateway.SearchResult{}, err
		}
		return gateway.ListOf(list), nil
	}

	hits, err := s.tmdb.SearchMovies(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("TMDB movie search failed")
		return gateway.SearchResult{}, fmt.Errorf("movie search failed: %w", err)
	}
	if len(hits) == 0 {
		return gateway.SearchResult{}, ErrNotFound
	}

	movie, err := s.MovieByID(ctx, hits[0].ID)
	if err != nil {
		return gateway.SearchResult{}, err
	}
	return gateway.MovieOf(movie), nil
}

// MovieByID assembles a movie from its details, credits, trailer and watch
// providers. Only the details lookup is required; the others degrade to
// empty values when they fail.
func (s *Service) MovieByID(ctx context.Context, id int) (gateway.MovieResult, error) {
	if !s.IsConfigured() {
		return gateway.MovieResult{}, ErrNoProvidersConfigured
	}

	var (
		details *tmdb.MovieDetails
		credits *tmdb.CreditsResponse
		videos  []tmdb.Video
		region  *tmdb.WatchProviderRegion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.tmdb.GetMovie(gctx, id)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get movie %d: %w", id, err)
		}
		details = d
		return nil
	})
	g.Go(func() error {
		c, err := s.tmdb.GetMovieCredits(gctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int("id", id).Msg("Failed to get movie credits")
			return nil
		}
		credits = c
		return nil
	})
	g.Go(func() error {
		v, err := s.tmdb.GetMovieVideos(gctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int("id", id).Msg("Failed to get movie videos")
			return nil
		}
		videos = v
		return nil
	})
	g.Go(func() error {
		r, err := s.tmdb.GetWatchProviders(gctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int("id", id).Msg("Failed to get watch providers")
			return nil
		}
		region = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return gateway.MovieResult{}, err
	}

	result := gateway.MovieResult{
		TMDB:       movieInfoFromDetails(details),
		Credits:    creditsFromResponse(credits),
		TrailerURL: trailerURL(videos),
		Providers:  []gateway.Provider{},
	}
	if region != nil {
		result.Providers = s.providers(ctx, region)
	}

	s.logger.Debug().
		Int("id", id).
		Str("title", result.TMDB.Title).
		Int("providers", len(result.Providers)).
		Msg("Assembled movie")

	return result, nil
}

// Filmography finds the person best matching name and returns their movies.
// Person searches use acting credits; director searches use crew credits
// with the Director job.
func (s *Service) Filmography(ctx context.Context, name string, t gateway.SearchType, sortBy gateway.SortBy) (gateway.PersonResult, error) {
	if !s.IsConfigured() {
		return gateway.PersonResult{}, ErrNoProvidersConfigured
	}

	people, err := s.tmdb.SearchPeople(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("TMDB person search failed")
		return gateway.PersonResult{}, fmt.Errorf("person search failed: %w", err)
	}
	if len(people) == 0 {
		return gateway.PersonResult{}, ErrNotFound
	}
	person := people[0]

	credits, err := s.tmdb.GetPersonMovieCredits(ctx, person.ID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return gateway.PersonResult{}, ErrNotFound
		}
		return gateway.PersonResult{}, fmt.Errorf("failed to get credits for %q: %w", person.Name, err)
	}

	var picked []tmdb.PersonCredit
	if t == gateway.TypeDirector {
		for _, c := range credits.Crew {
			if c.Job == "Director" {
				picked = append(picked, c)
			}
		}
	} else {
		picked = credits.Cast
	}

	movies := selectCredits(picked, sortBy, s.maxListResults)
	results, err := s.expand(ctx, movies)
	if err != nil {
		return gateway.PersonResult{}, err
	}

	s.logger.Debug().
		Str("name", person.Name).
		Str("type", string(t)).
		Int("results", len(results)).
		Msg("Assembled filmography")

	return gateway.PersonResult{SubjectName: person.Name, Results: results}, nil
}

// Suggest returns up to five autocomplete candidates. Director suggestions
// come from the person search.
func (s *Service) Suggest(ctx context.Context, query string, t gateway.SearchType) ([]gateway.Suggestion, error) {
	if !s.IsConfigured() {
		return nil, ErrNoProvidersConfigured
	}

	suggestions := make([]gateway.Suggestion, 0, maxSuggestions)

	if t.IsPeople() {
		people, err := s.tmdb.SearchPeople(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("person search failed: %w", err)
		}
		for _, p := range people {
			if len(suggestions) == maxSuggestions {
				break
			}
			suggestions = append(suggestions, gateway.Suggestion{
				ID:            p.ID,
				DisplayName:   p.Name,
				SecondaryInfo: p.KnownForDepartment,
			})
		}
		return suggestions, nil
	}

	movies, err := s.tmdb.SearchMovies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("movie search failed: %w", err)
	}
	for _, m := range movies {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, gateway.Suggestion{
			ID:            m.ID,
			DisplayName:   m.Title,
			SecondaryInfo: releaseYear(m.ReleaseDate),
		})
	}
	return suggestions, nil
}

// expand turns filmography entries into full movies, keeping their order.
// An entry whose lookup fails is kept with the data from the credit alone.
func (s *Service) expand(ctx context.Context, movies []tmdb.MovieResult) ([]gateway.MovieResult, error) {
	results := make([]gateway.MovieResult, len(movies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(expandConcurrency)
	for i, m := range movies {
		g.Go(func() error {
			full, err := s.MovieByID(gctx, m.ID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn().Err(err).Int("id", m.ID).Msg("Failed to expand filmography entry")
				full = shallowMovie(m)
			}
			results[i] = full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// providers flattens a region's offers, resolving direct links from the
// watch page when a scraper is available.
func (s *Service) providers(ctx context.Context, region *tmdb.WatchProviderRegion) []gateway.Provider {
	direct := map[string]string{}
	if s.scraper != nil && region.Link != "" {
		links, err := s.scraper.DirectLinks(ctx, region.Link)
		if err != nil {
			s.logger.Debug().Err(err).Str("url", region.Link).Msg("Watch page scrape failed, using TMDB link")
		} else {
			direct = links
		}
	}

	providers := []gateway.Provider{}
	for _, group := range region.Offers() {
		for _, p := range group.Providers {
			link, ok := direct[p.ProviderName]
			if !ok {
				link = region.Link
			}
			providers = append(providers, gateway.Provider{
				Name:      p.ProviderName,
				Type:      group.Kind,
				LogoPath:  p.LogoPath,
				DirectURL: link,
			})
		}
	}
	return providers
}

// selectCredits dedupes credits by movie, sorts them descending and caps
// the list.
func selectCredits(credits []tmdb.PersonCredit, sortBy gateway.SortBy, limit int) []tmdb.MovieResult {
	seen := make(map[int]bool, len(credits))
	movies := make([]tmdb.MovieResult, 0, len(credits))
	for _, c := range credits {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		movies = append(movies, c.MovieResult)
	}

	slices.SortStableFunc(movies, func(a, b tmdb.MovieResult) int {
		if sortBy == gateway.SortPopularity {
			return cmp.Compare(b.Popularity, a.Popularity)
		}
		return cmp.Compare(b.VoteAverage, a.VoteAverage)
	})

	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}

func movieInfoFromDetails(d *tmdb.MovieDetails) gateway.MovieInfo {
	genres := make([]gateway.Genre, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, gateway.Genre{ID: g.ID, Name: g.Name})
	}
	return gateway.MovieInfo{
		ID:          d.ID,
		Title:       d.Title,
		ReleaseDate: d.ReleaseDate,
		VoteAverage: d.VoteAverage,
		VoteCount:   d.VoteCount,
		Popularity:  d.Popularity,
		PosterPath:  deref(d.PosterPath),
		Overview:    d.Overview,
		Genres:      genres,
	}
}

func shallowMovie(m tmdb.MovieResult) gateway.MovieResult {
	return gateway.MovieResult{
		TMDB: gateway.MovieInfo{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			Popularity:  m.Popularity,
			PosterPath:  deref(m.PosterPath),
			Overview:    m.Overview,
			Genres:      []gateway.Genre{},
		},
		Credits:   gateway.Credits{Director: unknownDirector, Cast: []string{}},
		Providers: []gateway.Provider{},
	}
}

func creditsFromResponse(c *tmdb.CreditsResponse) gateway.Credits {
	credits := gateway.Credits{Director: unknownDirector, Cast: []string{}}
	if c == nil {
		return credits
	}
	for _, member := range c.Crew {
		if member.Job == "Director" {
			credits.Director = member.Name
			break
		}
	}
	for _, member := range c.Cast {
		if len(credits.Cast) == maxCast {
			break
		}
		credits.Cast = append(credits.Cast, member.Name)
	}
	return credits
}

// trailerURL returns the embed URL of the first YouTube trailer.
func trailerURL(videos []tmdb.Video) string {
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			return youtubeEmbedBase + v.Key
		}
	}
	return ""
}

func releaseYear(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
