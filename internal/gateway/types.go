// Package gateway defines the search gateway's JSON contract and an HTTP
// client for it.
package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// SearchType selects what a free-text query is matched against.
type SearchType string

const (
	TypeMovie    SearchType = "movie"
	TypePerson   SearchType = "person"
	TypeDirector SearchType = "director"
)

// ParseSearchType maps a query parameter to a SearchType. Anything
// unrecognised, including the empty string, is a movie search.
func ParseSearchType(s string) SearchType {
	switch SearchType(strings.ToLower(strings.TrimSpace(s))) {
	case TypePerson:
		return TypePerson
	case TypeDirector:
		return TypeDirector
	default:
		return TypeMovie
	}
}

// IsPeople reports whether results are a filmography list.
func (t SearchType) IsPeople() bool {
	return t == TypePerson || t == TypeDirector
}

// SortBy orders a person's filmography.
type SortBy string

const (
	SortVoteAverage SortBy = "vote_average"
	SortPopularity  SortBy = "popularity"
)

// ParseSortBy defaults to SortVoteAverage.
func ParseSortBy(s string) SortBy {
	if SortBy(s) == SortPopularity {
		return SortPopularity
	}
	return SortVoteAverage
}

// SearchQuery is the text and type of a search box submission.
type SearchQuery struct {
	Text string     `json:"text"`
	Type SearchType `json:"type"`
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	ID            int    `json:"id"`
	DisplayName   string `json:"display_name"`
	SecondaryInfo string `json:"secondary_info,omitempty"`
}

// SuggestResponse is the body of GET /suggest.
type SuggestResponse struct {
	Results []Suggestion `json:"results"`
}

// Genre is a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieInfo is the TMDB part of a movie result.
type MovieInfo struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	Genres      []Genre `json:"genres"`
}

// Credits holds the director and the top billed cast.
type Credits struct {
	Director string   `json:"director"`
	Cast     []string `json:"cast"`
}

// Provider offer types.
const (
	OfferFlatrate = "flatrate"
	OfferRent     = "rent"
	OfferBuy      = "buy"
	OfferFree     = "free"
)

// Provider is a streaming, rental or purchase offer.
type Provider struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	LogoPath  string `json:"logo_path,omitempty"`
	DirectURL string `json:"direct_url,omitempty"`
}

// MovieResult is a fully assembled movie.
type MovieResult struct {
	TMDB       MovieInfo  `json:"tmdb"`
	Credits    Credits    `json:"credits"`
	TrailerURL string     `json:"trailer_url,omitempty"`
	Providers  []Provider `json:"providers"`
}

// PersonResult is the filmography of an actor or director.
type PersonResult struct {
	SubjectName string        `json:"subject"`
	Results     []MovieResult `json:"results"`
}

// ErrorResult carries a user-facing failure message.
type ErrorResult struct {
	Message string `json:"error"`
}

// Kind tags the populated variant of a SearchResult.
type Kind int

const (
	KindNone Kind = iota
	KindMovie
	KindList
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindList:
		return "list"
	case KindError:
		return "error"
	default:
		return "none"
	}
}

// SearchResult holds exactly one of a movie, a filmography, or an error.
// Construct it with MovieOf, ListOf or ErrorOf.
type SearchResult struct {
	Kind  Kind
	Movie *MovieResult
	List  *PersonResult
	Err   *ErrorResult
}

// MovieOf wraps a single movie.
func MovieOf(m MovieResult) SearchResult {
	return SearchResult{Kind: KindMovie, Movie: &m}
}

// ListOf wraps a filmography.
func ListOf(p PersonResult) SearchResult {
	return SearchResult{Kind: KindList, List: &p}
}

// ErrorOf wraps a failure message.
func ErrorOf(message string) SearchResult {
	return SearchResult{Kind: KindError, Err: &ErrorResult{Message: message}}
}

// IsZero reports whether no variant is populated.
func (r SearchResult) IsZero() bool {
	return r.Kind == KindNone
}

var ErrMalformed = errors.New("malformed search result")

// MarshalJSON encodes the populated variant only.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindMovie:
		return json.Marshal(r.Movie)
	case KindList:
		return json.Marshal(r.List)
	case KindError:
		return json.Marshal(r.Err)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON picks the variant from the keys present in the body:
// "error" wins, then "tmdb", then a "results" array.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrMalformed
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return ErrMalformed
	}

	switch {
	case parsed.Get("error").Exists():
		var e ErrorResult
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Join(ErrMalformed, err)
		}
		*r = ErrorOf(e.Message)
	case parsed.Get("tmdb").IsObject():
		var m MovieResult
		if err := json.Unmarshal(data, &m); err != nil {
			return errors.Join(ErrMalformed, err)
		}
		*r = MovieOf(m)
	case parsed.Get("results").IsArray():
		var p PersonResult
		if err := json.Unmarshal(data, &p); err != nil {
			return errors.Join(ErrMalformed, err)
		}
		*r = ListOf(p)
	default:
		return ErrMalformed
	}
	return nil
}
