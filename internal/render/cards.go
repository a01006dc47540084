// Package render turns gateway results and view snapshots into template
// data and HTML.
package render

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/cinefinder/cinefinder/internal/gateway"
)

const (
	PosterBaseURL      = "https://image.tmdb.org/t/p/w500"
	LogoBaseURL        = "https://image.tmdb.org/t/p/w45"
	NoProvidersMessage = "⚠️ Nessuna piattaforma trovata."
)

var strict = bluemonday.StrictPolicy()

// Link is a navigable name.
type Link struct {
	Name string
	URL  string
}

// ProviderEntry is one offer line of a movie card.
type ProviderEntry struct {
	Name    string
	LogoURL string
	URL     string
	// TypeLabel is empty for subscription offers.
	TypeLabel string
}

// MovieCard is the display form of a movie.
type MovieCard struct {
	ID         int
	Title      string
	URL        string
	PosterURL  string
	Year       string
	Rating     string
	VoteCount  int
	Director   Link
	Cast       []Link
	Genres     string
	Overview   string
	TrailerURL string
	Providers  []ProviderEntry
	// NoProviders holds the placeholder shown instead of an empty list.
	NoProviders string
}

// ListView is the display form of a filmography.
type ListView struct {
	Subject string
	Cards   []MovieCard
	Total   int
	HasMore bool
	// MoreURL is the no-script link for the "show more" control.
	MoreURL string
}

// RenderMovie maps a movie result to a card.
func RenderMovie(m gateway.MovieResult) MovieCard {
	card := MovieCard{
		ID:         m.TMDB.ID,
		Title:      clean(m.TMDB.Title),
		URL:        MovieURL(m.TMDB.ID),
		PosterURL:  PosterURL(m.TMDB.PosterPath),
		Year:       Year(m.TMDB.ReleaseDate),
		Rating:     strconv.FormatFloat(m.TMDB.VoteAverage, 'f', -1, 64),
		VoteCount:  m.TMDB.VoteCount,
		Genres:     genreNames(m.TMDB.Genres),
		Overview:   clean(m.TMDB.Overview),
		TrailerURL: m.TrailerURL,
	}

	if name := clean(m.Credits.Director); name != "" {
		card.Director = Link{Name: name, URL: DirectorURL(name)}
	}
	for _, actor := range m.Credits.Cast {
		name := clean(actor)
		card.Cast = append(card.Cast, Link{Name: name, URL: PersonURL(name)})
	}

	for _, p := range m.Providers {
		entry := ProviderEntry{
			Name:    clean(p.Name),
			LogoURL: LogoURL(p.LogoPath),
			URL:     p.DirectURL,
		}
		if p.Type != gateway.OfferFlatrate {
			entry.TypeLabel = p.Type
		}
		card.Providers = append(card.Providers, entry)
	}
	if len(card.Providers) == 0 {
		card.NoProviders = NoProvidersMessage
	}

	return card
}

// RenderList maps the first visible entries of a filmography to cards.
func RenderList(p gateway.PersonResult, visible int) ListView {
	n := min(max(visible, 0), len(p.Results))
	view := ListView{
		Subject: clean(p.SubjectName),
		Cards:   make([]MovieCard, 0, n),
		Total:   len(p.Results),
		HasMore: n < len(p.Results),
	}
	for _, m := range p.Results[:n] {
		view.Cards = append(view.Cards, RenderMovie(m))
	}
	return view
}

// Year returns the first four characters of an ISO date. Shorter strings
// are returned whole.
func Year(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// PosterURL returns the CDN URL of a poster, or "" when there is none.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return PosterBaseURL + path
}

// LogoURL returns the CDN URL of a provider logo, or "" when there is none.
func LogoURL(path string) string {
	if path == "" {
		return ""
	}
	return LogoBaseURL + path
}

// MovieURL is the detail page of a movie.
func MovieURL(id int) string {
	return "/movie/" + strconv.Itoa(id)
}

// PersonURL is the filmography page of an actor.
func PersonURL(name string) string {
	return "/person/" + url.PathEscape(name)
}

// DirectorURL is the filmography page of a director.
func DirectorURL(name string) string {
	return "/director/" + url.PathEscape(name)
}

func genreNames(genres []gateway.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, clean(g.Name))
	}
	return strings.Join(names, ", ")
}

// clean strips markup from upstream text. html/template escapes the result
// again on output, so the policy's entity escaping is undone here.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
