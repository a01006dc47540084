package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/config"
	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/metadata/mock"
	"github.com/cinefinder/cinefinder/internal/metadata/tmdb"
)

type fakeScraper struct {
	links map[string]string
	err   error
	calls int
}

func (f *fakeScraper) DirectLinks(ctx context.Context, pageURL string) (map[string]string, error) {
	f.calls++
	return f.links, f.err
}

const inceptionWatchLink = "https://www.themoviedb.org/movie/27205/watch?locale=IT"

func inceptionHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			json.NewEncoder(w).Encode(tmdb.SearchMoviesResponse{
				Results: []tmdb.MovieResult{
					{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15"},
					{ID: 64956, Title: "Inception: The Cobol Job", ReleaseDate: "2010-12-07"},
				},
			})
		case "/movie/27205":
			poster := "/inception.jpg"
			json.NewEncoder(w).Encode(tmdb.MovieDetails{
				ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15",
				PosterPath: &poster, VoteAverage: 8.4, VoteCount: 36000,
				Genres: []tmdb.Genre{{ID: 28, Name: "Azione"}},
			})
		case "/movie/27205/credits":
			json.NewEncoder(w).Encode(tmdb.CreditsResponse{
				Cast: []tmdb.CastMember{
					{Name: "Leonardo DiCaprio"}, {Name: "Joseph Gordon-Levitt"},
					{Name: "Elliot Page"}, {Name: "Tom Hardy"},
				},
				Crew: []tmdb.CrewMember{
					{Name: "Emma Thomas", Job: "Producer"},
					{Name: "Christopher Nolan", Job: "Director"},
				},
			})
		case "/movie/27205/videos":
			json.NewEncoder(w).Encode(tmdb.VideosResponse{Results: []tmdb.Video{
				{Key: "teaser", Site: "YouTube", Type: "Teaser"},
				{Key: "vimeo", Site: "Vimeo", Type: "Trailer"},
				{Key: "YoHD9XEInc0", Site: "YouTube", Type: "Trailer"},
			}})
		case "/movie/27205/watch/providers":
			json.NewEncoder(w).Encode(tmdb.WatchProvidersResponse{
				ID: 27205,
				Results: map[string]tmdb.WatchProviderRegion{
					"IT": {
						Link:     inceptionWatchLink,
						Rent:     []tmdb.WatchProvider{{ProviderName: "Apple TV", LogoPath: "/apple.jpg"}},
						Flatrate: []tmdb.WatchProvider{{ProviderName: "Netflix", LogoPath: "/netflix.jpg"}},
					},
				},
			})
		default:
			t.Logf("unhandled path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestService(t *testing.T, handler http.Handler, scraper LinkScraper) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := tmdb.NewClient(config.TMDBConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Language: "it-IT",
		Region:   "IT",
		Timeout:  5,
	}, zerolog.Nop())
	return NewServiceWithClients(client, scraper, 10, zerolog.Nop())
}

func TestService_Search_Movie(t *testing.T) {
	scraper := &fakeScraper{links: map[string]string{"Netflix": "https://www.themoviedb.org/watch/netflix-direct"}}
	svc := newTestService(t, inceptionHandler(t), scraper)

	result, err := svc.Search(context.Background(), "Inception", gateway.TypeMovie, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Kind != gateway.KindMovie {
		t.Fatalf("Kind = %v, want movie", result.Kind)
	}

	movie := result.Movie
	if movie.TMDB.ID != 27205 || movie.TMDB.PosterPath != "/inception.jpg" {
		t.Errorf("TMDB = %+v", movie.TMDB)
	}
	if movie.Credits.Director != "Christopher Nolan" {
		t.Errorf("Director = %q", movie.Credits.Director)
	}
	if len(movie.Credits.Cast) != 3 || movie.Credits.Cast[2] != "Elliot Page" {
		t.Errorf("Cast = %v, want first three", movie.Credits.Cast)
	}
	if movie.TrailerURL != "https://www.youtube.com/embed/YoHD9XEInc0" {
		t.Errorf("TrailerURL = %q", movie.TrailerURL)
	}

	if len(movie.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(movie.Providers))
	}
	if movie.Providers[0].Name != "Netflix" || movie.Providers[0].Type != tmdb.OfferFlatrate {
		t.Errorf("Providers[0] = %+v, want flatrate Netflix first", movie.Providers[0])
	}
	if movie.Providers[0].DirectURL != "https://www.themoviedb.org/watch/netflix-direct" {
		t.Errorf("Providers[0].DirectURL = %q", movie.Providers[0].DirectURL)
	}
	if movie.Providers[1].DirectURL != inceptionWatchLink {
		t.Errorf("Providers[1].DirectURL = %q, want the TMDB watch link", movie.Providers[1].DirectURL)
	}
	if scraper.calls != 1 {
		t.Errorf("scraper calls = %d, want 1", scraper.calls)
	}
}

func TestService_Search_ScrapeFailureFallsBack(t *testing.T) {
	scraper := &fakeScraper{err: errors.New("blocked")}
	svc := newTestService(t, inceptionHandler(t), scraper)

	movie, err := svc.MovieByID(context.Background(), 27205)
	if err != nil {
		t.Fatalf("MovieByID() error = %v", err)
	}
	for _, p := range movie.Providers {
		if p.DirectURL != inceptionWatchLink {
			t.Errorf("%s DirectURL = %q, want %q", p.Name, p.DirectURL, inceptionWatchLink)
		}
	}
}

func TestService_Search_MovieNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tmdb.SearchMoviesResponse{Results: []tmdb.MovieResult{}})
	}), nil)

	_, err := svc.Search(context.Background(), "zzzz", gateway.TypeMovie, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Search() error = %v, want %v", err, ErrNotFound)
	}
}

func TestService_MovieByID_NotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), nil)

	_, err := svc.MovieByID(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("MovieByID() error = %v, want %v", err, ErrNotFound)
	}
}

func TestService_MovieByID_OptionalLookupsDegrade(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/42" {
			json.NewEncoder(w).Encode(tmdb.MovieDetails{ID: 42, Title: "Senza dati"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)

	movie, err := svc.MovieByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("MovieByID() error = %v", err)
	}
	if movie.Credits.Director != "Sconosciuto" {
		t.Errorf("Director = %q, want Sconosciuto", movie.Credits.Director)
	}
	if len(movie.Credits.Cast) != 0 || movie.TrailerURL != "" || len(movie.Providers) != 0 {
		t.Errorf("expected empty optional fields, got %+v", movie)
	}
	if movie.Providers == nil {
		t.Error("Providers should be an empty slice, not nil")
	}
}

func TestService_Filmography_Director(t *testing.T) {
	svc := NewServiceWithClients(mock.NewTMDBClient(), nil, 2, zerolog.Nop())

	list, err := svc.Filmography(context.Background(), "nolan", gateway.TypeDirector, "")
	if err != nil {
		t.Fatalf("Filmography() error = %v", err)
	}
	if list.SubjectName != "Christopher Nolan" {
		t.Errorf("SubjectName = %q", list.SubjectName)
	}
	if len(list.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2 (capped)", len(list.Results))
	}
	if list.Results[0].TMDB.ID != 155 || list.Results[1].TMDB.ID != 27205 {
		t.Errorf("order = [%d %d], want [155 27205]", list.Results[0].TMDB.ID, list.Results[1].TMDB.ID)
	}
	if list.Results[0].Credits.Director != "Christopher Nolan" {
		t.Errorf("expanded movie Director = %q", list.Results[0].Credits.Director)
	}
}

func TestService_Filmography_PersonNotFound(t *testing.T) {
	svc := NewServiceWithClients(mock.NewTMDBClient(), nil, 10, zerolog.Nop())

	_, err := svc.Filmography(context.Background(), "Nessuno", gateway.TypePerson, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Filmography() error = %v, want %v", err, ErrNotFound)
	}
}

func TestService_Filmography_ExpandFailureKeepsEntry(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/person":
			json.NewEncoder(w).Encode(tmdb.SearchPeopleResponse{Results: []tmdb.PersonResult{{ID: 1, Name: "Attore"}}})
		case "/person/1/movie_credits":
			w.Write([]byte(`{"id":1,"cast":[
				{"id":10,"title":"Primo","vote_average":7.0},
				{"id":11,"title":"Secondo","vote_average":6.0},
				{"id":10,"title":"Primo","vote_average":7.0}
			],"crew":[]}`))
		case "/movie/10":
			json.NewEncoder(w).Encode(tmdb.MovieDetails{ID: 10, Title: "Primo"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}), nil)

	list, err := svc.Filmography(context.Background(), "Attore", gateway.TypePerson, gateway.SortVoteAverage)
	if err != nil {
		t.Fatalf("Filmography() error = %v", err)
	}
	if len(list.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2 (deduped)", len(list.Results))
	}
	if list.Results[1].TMDB.Title != "Secondo" || list.Results[1].Credits.Director != "Sconosciuto" {
		t.Errorf("fallback entry = %+v", list.Results[1])
	}
}

func TestSelectCredits(t *testing.T) {
	credits := []tmdb.PersonCredit{
		{MovieResult: tmdb.MovieResult{ID: 1, VoteAverage: 9.0, Popularity: 1}},
		{MovieResult: tmdb.MovieResult{ID: 2, VoteAverage: 5.0, Popularity: 10}},
		{MovieResult: tmdb.MovieResult{ID: 1, VoteAverage: 9.0, Popularity: 1}},
		{MovieResult: tmdb.MovieResult{ID: 3, VoteAverage: 7.0, Popularity: 5}},
	}

	tests := []struct {
		name   string
		sortBy gateway.SortBy
		limit  int
		want   []int
	}{
		{"vote average", gateway.SortVoteAverage, 10, []int{1, 3, 2}},
		{"popularity", gateway.SortPopularity, 10, []int{2, 3, 1}},
		{"capped", gateway.SortVoteAverage, 2, []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectCredits(credits, tt.sortBy, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestService_Suggest_CapsAtFive(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := make([]tmdb.MovieResult, 0, 7)
		for i := 1; i <= 7; i++ {
			results = append(results, tmdb.MovieResult{ID: i, Title: "Rocky", ReleaseDate: "1976-11-21"})
		}
		json.NewEncoder(w).Encode(tmdb.SearchMoviesResponse{Results: results})
	}), nil)

	got, err := svc.Suggest(context.Background(), "Rocky", gateway.TypeMovie)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if got[0].SecondaryInfo != "1976" {
		t.Errorf("SecondaryInfo = %q, want release year", got[0].SecondaryInfo)
	}
}

func TestService_Suggest_DirectorUsesPeople(t *testing.T) {
	svc := NewServiceWithClients(mock.NewTMDBClient(), nil, 10, zerolog.Nop())

	got, err := svc.Suggest(context.Background(), "leone", gateway.TypeDirector)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 1 || got[0].DisplayName != "Sergio Leone" || got[0].SecondaryInfo != "Directing" {
		t.Errorf("Suggest() = %+v", got)
	}
}

func TestService_NotConfigured(t *testing.T) {
	svc := NewServiceWithClients(tmdb.NewClient(config.TMDBConfig{}, zerolog.Nop()), nil, 10, zerolog.Nop())

	if _, err := svc.Search(context.Background(), "x", gateway.TypeMovie, ""); !errors.Is(err, ErrNoProvidersConfigured) {
		t.Errorf("Search() error = %v, want %v", err, ErrNoProvidersConfigured)
	}
}
