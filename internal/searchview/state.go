// Package searchview holds the per-session search state machines: the main
// search box with suggestions and the movie, person and director detail
// views.
package searchview

import (
	"github.com/cinefinder/cinefinder/internal/gateway"
)

// PrimaryPhase tracks the main result fetch.
type PrimaryPhase int

const (
	PrimaryIdle PrimaryPhase = iota
	PrimaryLoading
	PrimaryResulted
	PrimaryFailed
)

func (p PrimaryPhase) String() string {
	switch p {
	case PrimaryLoading:
		return "loading"
	case PrimaryResulted:
		return "resulted"
	case PrimaryFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SuggestPhase tracks the autocomplete list.
type SuggestPhase int

const (
	SuggestIdle SuggestPhase = iota
	Suggesting
)

func (p SuggestPhase) String() string {
	if p == Suggesting {
		return "suggesting"
	}
	return "idle"
}

// User-facing failure messages.
const (
	MsgRequestFailed  = "Errore nella richiesta."
	MsgSearchFailed   = "Errore durante la ricerca."
	MsgMovieNotFound  = "Film non trovato."
	MinSuggestLength  = 2
	MaxSuggestions    = 5
	DefaultRevealStep = 3
)

// Outcome is the primary fetch part of a snapshot. The result is zero
// while Idle or Loading, an ErrorResult while Failed, and a movie or list
// while Resulted.
type Outcome struct {
	Primary PrimaryPhase
	Result  gateway.SearchResult
	Reveal  Reveal
}

// Loading reports whether a fetch is in flight.
func (o Outcome) Loading() bool {
	return o.Primary == PrimaryLoading
}

// Error returns the failure message in the Failed phase, or "".
func (o Outcome) Error() string {
	if o.Primary != PrimaryFailed || o.Result.Err == nil {
		return ""
	}
	return o.Result.Err.Message
}

// Movie returns the single movie result, if any.
func (o Outcome) Movie() *gateway.MovieResult {
	if o.Primary != PrimaryResulted {
		return nil
	}
	return o.Result.Movie
}

// List returns the filmography result, if any.
func (o Outcome) List() *gateway.PersonResult {
	if o.Primary != PrimaryResulted {
		return nil
	}
	return o.Result.List
}

// VisibleMovies returns the revealed prefix of a filmography result.
func (o Outcome) VisibleMovies() []gateway.MovieResult {
	list := o.List()
	if list == nil {
		return nil
	}
	return list.Results[:o.Reveal.Count(len(list.Results))]
}

// CanShowMore reports whether the "show more" control is displayed.
func (o Outcome) CanShowMore() bool {
	list := o.List()
	return list != nil && o.Reveal.HasMore(len(list.Results))
}

// State is an immutable snapshot of a View.
type State struct {
	Text        string
	Type        gateway.SearchType
	Suggest     SuggestPhase
	Suggestions []gateway.Suggestion
	Outcome
}

// ShowSuggestions reports whether the autocomplete list is displayed.
func (s State) ShowSuggestions() bool {
	return s.Suggest == Suggesting && len(s.Suggestions) > 0
}

// Query returns the text and type a submit would send.
func (s State) Query() gateway.SearchQuery {
	return gateway.SearchQuery{Text: s.Text, Type: s.Type}
}

// clone copies the suggestion slice so a snapshot never aliases live state.
func (s State) clone() State {
	out := s
	if s.Suggestions != nil {
		out.Suggestions = append([]gateway.Suggestion(nil), s.Suggestions...)
	}
	return out
}
