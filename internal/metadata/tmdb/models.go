package tmdb

// SearchMoviesResponse is the response from TMDB movie search.
type SearchMoviesResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie from TMDB search results.
type MovieResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    *string `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int   `json:"genre_ids"`
}

// MovieDetails is the detailed movie info from TMDB /movie/{id}.
type MovieDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Runtime          int     `json:"runtime"`
	Tagline          string  `json:"tagline"`
	ImdbID           string  `json:"imdb_id"`
	OriginalLanguage string  `json:"original_language"`
	Genres           []Genre `json:"genres"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// CreditsResponse is the response from /movie/{id}/credits.
type CreditsResponse struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember represents a cast member from TMDB credits.
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember represents a crew member from TMDB credits.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// VideosResponse is the response from /movie/{id}/videos.
type VideosResponse struct {
	Results []Video `json:"results"`
}

// Video represents a video (trailer, teaser, etc.) from TMDB.
type Video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Official bool   `json:"official"`
}

// WatchProvidersResponse is the response from /movie/{id}/watch/providers,
// keyed by ISO 3166-1 region.
type WatchProvidersResponse struct {
	ID      int                            `json:"id"`
	Results map[string]WatchProviderRegion `json:"results"`
}

// WatchProviderRegion lists offers for one region. Link points at the TMDB
// watch page for the movie in that region.
type WatchProviderRegion struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
	Free     []WatchProvider `json:"free"`
}

// WatchProvider is a single streaming, rental or purchase offer.
type WatchProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// SearchPeopleResponse is the response from TMDB person search.
type SearchPeopleResponse struct {
	Page         int            `json:"page"`
	Results      []PersonResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// PersonResult is a person from TMDB search results.
type PersonResult struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        *string `json:"profile_path"`
}

// PersonMovieCredits is the response from /person/{id}/movie_credits.
type PersonMovieCredits struct {
	ID   int            `json:"id"`
	Cast []PersonCredit `json:"cast"`
	Crew []PersonCredit `json:"crew"`
}

// PersonCredit is one movie in a filmography. Character is set for cast
// credits, Job for crew credits.
type PersonCredit struct {
	MovieResult
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
}

// Offer kinds, in display order.
const (
	OfferFlatrate = "flatrate"
	OfferRent     = "rent"
	OfferBuy      = "buy"
	OfferFree     = "free"
)

// OfferGroup is the set of providers for one offer kind.
type OfferGroup struct {
	Kind      string
	Providers []WatchProvider
}

// Offers returns the region's providers grouped by kind in display order.
func (r WatchProviderRegion) Offers() []OfferGroup {
	return []OfferGroup{
		{OfferFlatrate, r.Flatrate},
		{OfferRent, r.Rent},
		{OfferBuy, r.Buy},
		{OfferFree, r.Free},
	}
}
