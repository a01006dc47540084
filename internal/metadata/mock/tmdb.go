// Package mock provides an offline TMDB catalog for developer mode.
package mock

import (
	"context"
	"strings"

	"github.com/cinefinder/cinefinder/internal/metadata/tmdb"
)

// TMDBClient is a mock implementation of the TMDB client.
type TMDBClient struct{}

// NewTMDBClient creates a new mock TMDB client.
func NewTMDBClient() *TMDBClient {
	return &TMDBClient{}
}

func (c *TMDBClient) Name() string {
	return "tmdb-mock"
}

func (c *TMDBClient) IsConfigured() bool {
	return true
}

func (c *TMDBClient) Test(ctx context.Context) error {
	return nil
}

func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	results := []tmdb.MovieResult{}

	for i := range mockMovies {
		movie := &mockMovies[i]
		if strings.Contains(strings.ToLower(movie.Title), query) {
			results = append(results, movieResult(movie))
		}
	}
	return results, nil
}

func (c *TMDBClient) SearchPeople(ctx context.Context, query string) ([]tmdb.PersonResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	results := []tmdb.PersonResult{}

	for _, person := range mockPeople {
		if strings.Contains(strings.ToLower(person.Name), query) {
			results = append(results, person)
		}
	}
	return results, nil
}

func (c *TMDBClient) GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
	for i := range mockMovies {
		if mockMovies[i].ID == id {
			movie := mockMovies[i]
			return &movie, nil
		}
	}
	return nil, tmdb.ErrNotFound
}

func (c *TMDBClient) GetMovieCredits(ctx context.Context, id int) (*tmdb.CreditsResponse, error) {
	credits, ok := mockMovieCredits[id]
	if !ok {
		return &tmdb.CreditsResponse{ID: id}, nil
	}
	credits.ID = id
	return &credits, nil
}

func (c *TMDBClient) GetMovieVideos(ctx context.Context, id int) ([]tmdb.Video, error) {
	key, ok := mockTrailers[id]
	if !ok {
		return nil, nil
	}
	return []tmdb.Video{{Key: key, Site: "YouTube", Type: "Trailer", Name: "Trailer", Official: true}}, nil
}

func (c *TMDBClient) GetWatchProviders(ctx context.Context, id int) (*tmdb.WatchProviderRegion, error) {
	region, ok := mockProviders[id]
	if !ok {
		return &tmdb.WatchProviderRegion{}, nil
	}
	return &region, nil
}

func (c *TMDBClient) GetPersonMovieCredits(ctx context.Context, personID int) (*tmdb.PersonMovieCredits, error) {
	filmography, ok := mockFilmographies[personID]
	if !ok {
		return nil, tmdb.ErrNotFound
	}

	credits := &tmdb.PersonMovieCredits{ID: personID}
	for _, id := range filmography.cast {
		if m := findMovie(id); m != nil {
			credits.Cast = append(credits.Cast, tmdb.PersonCredit{MovieResult: movieResult(m)})
		}
	}
	for _, id := range filmography.directed {
		if m := findMovie(id); m != nil {
			credits.Crew = append(credits.Crew, tmdb.PersonCredit{MovieResult: movieResult(m), Job: "Director"})
		}
	}
	return credits, nil
}

func findMovie(id int) *tmdb.MovieDetails {
	for i := range mockMovies {
		if mockMovies[i].ID == id {
			return &mockMovies[i]
		}
	}
	return nil
}

func movieResult(m *tmdb.MovieDetails) tmdb.MovieResult {
	return tmdb.MovieResult{
		ID:            m.ID,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Overview:      m.Overview,
		ReleaseDate:   m.ReleaseDate,
		PosterPath:    m.PosterPath,
		VoteAverage:   m.VoteAverage,
		VoteCount:     m.VoteCount,
		Popularity:    m.Popularity,
	}
}

func ptr(s string) *string {
	return &s
}

type filmography struct {
	cast     []int
	directed []int
}
