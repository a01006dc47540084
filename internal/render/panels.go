package render

import (
	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/searchview"
)

// Option is one entry of a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// SuggestionItem is one autocomplete entry.
type SuggestionItem struct {
	Index int
	Label string
}

// ResultsPanel is the result area shared by every page.
type ResultsPanel struct {
	Loading bool
	Error   string
	Movie   *MovieCard
	List    *ListView
	// Compact lists show only the title and year of each movie.
	Compact bool
}

// SearchPanel is the search box with its suggestions and results.
type SearchPanel struct {
	Query           string
	Types           []Option
	ShowSuggestions bool
	Suggestions     []SuggestionItem
	Results         ResultsPanel
}

// IndexPage is the search page.
type IndexPage struct {
	Search SearchPanel
	// Live enables the websocket client.
	Live bool
}

// MoviePage is the detail page of one movie.
type MoviePage struct {
	Title   string
	Results ResultsPanel
}

// PersonPage is the filmography page of an actor.
type PersonPage struct {
	Name    string
	Sort    []Option
	Results ResultsPanel
}

// DirectorPage is the filmography page of a director.
type DirectorPage struct {
	Name    string
	Results ResultsPanel
}

var typeLabels = []struct {
	t     gateway.SearchType
	label string
}{
	{gateway.TypeMovie, "Film"},
	{gateway.TypePerson, "Attore"},
	{gateway.TypeDirector, "Regista"},
}

var sortLabels = []struct {
	s     gateway.SortBy
	label string
}{
	{gateway.SortVoteAverage, "⭐ Voto"},
	{gateway.SortPopularity, "🔥 Popolarità"},
}

// TypeOptions lists the search types with selected marked.
func TypeOptions(selected gateway.SearchType) []Option {
	opts := make([]Option, 0, len(typeLabels))
	for _, l := range typeLabels {
		opts = append(opts, Option{Value: string(l.t), Label: l.label, Selected: l.t == selected})
	}
	return opts
}

// SortOptions lists the filmography orders with selected marked.
func SortOptions(selected gateway.SortBy) []Option {
	opts := make([]Option, 0, len(sortLabels))
	for _, l := range sortLabels {
		opts = append(opts, Option{Value: string(l.s), Label: l.label, Selected: l.s == selected})
	}
	return opts
}

// Results builds the result area from the primary track of a snapshot.
func Results(o searchview.Outcome) ResultsPanel {
	panel := ResultsPanel{
		Loading: o.Loading(),
		Error:   clean(o.Error()),
	}
	if m := o.Movie(); m != nil {
		card := RenderMovie(*m)
		panel.Movie = &card
	}
	if l := o.List(); l != nil {
		list := RenderList(*l, o.Reveal.Visible)
		panel.List = &list
	}
	return panel
}

// Search builds the search panel from a view snapshot.
func Search(s searchview.State) SearchPanel {
	panel := SearchPanel{
		Query:           s.Text,
		Types:           TypeOptions(s.Type),
		ShowSuggestions: s.ShowSuggestions(),
		Results:         Results(s.Outcome),
	}
	for i, sg := range s.Suggestions {
		label := clean(sg.DisplayName)
		if sg.SecondaryInfo != "" {
			label += " (" + clean(sg.SecondaryInfo) + ")"
		}
		panel.Suggestions = append(panel.Suggestions, SuggestionItem{Index: i, Label: label})
	}
	return panel
}

// Movie builds the movie detail page.
func Movie(s searchview.DetailState) MoviePage {
	page := MoviePage{Results: Results(s.Outcome)}
	if page.Results.Movie != nil {
		page.Title = page.Results.Movie.Title
	}
	return page
}

// Person builds the actor filmography page.
func Person(s searchview.DetailState) PersonPage {
	return PersonPage{
		Name:    s.Name,
		Sort:    SortOptions(s.SortBy),
		Results: Results(s.Outcome),
	}
}

// Director builds the director filmography page.
func Director(s searchview.DetailState) DirectorPage {
	results := Results(s.Outcome)
	results.Compact = true
	return DirectorPage{Name: s.Name, Results: results}
}
