package metadata

import (
	"context"

	"github.com/cinefinder/cinefinder/internal/metadata/tmdb"
)

// TMDBClient defines the TMDB API operations the gateway needs.
type TMDBClient interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
	SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error)
	SearchPeople(ctx context.Context, query string) ([]tmdb.PersonResult, error)
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	GetMovieCredits(ctx context.Context, id int) (*tmdb.CreditsResponse, error)
	GetMovieVideos(ctx context.Context, id int) ([]tmdb.Video, error)
	GetWatchProviders(ctx context.Context, id int) (*tmdb.WatchProviderRegion, error)
	GetPersonMovieCredits(ctx context.Context, personID int) (*tmdb.PersonMovieCredits, error)
}

// LinkScraper resolves provider names to direct watch links.
type LinkScraper interface {
	DirectLinks(ctx context.Context, pageURL string) (map[string]string, error)
}
