package searchview

import (
	"context"
	"sync"

	"github.com/cinefinder/cinefinder/internal/gateway"
)

// funcFetcher answers immediately from the configured functions and
// records every query.
type funcFetcher struct {
	mu       sync.Mutex
	searched []gateway.SearchQuery
	suggests []gateway.SearchQuery

	search  func(q gateway.SearchQuery) (gateway.SearchResult, error)
	suggest func(q gateway.SearchQuery) ([]gateway.Suggestion, error)
}

func (f *funcFetcher) Search(ctx context.Context, q gateway.SearchQuery) (gateway.SearchResult, error) {
	f.mu.Lock()
	f.searched = append(f.searched, q)
	f.mu.Unlock()
	if f.search == nil {
		return gateway.MovieOf(movie(1, q.Text)), nil
	}
	return f.search(q)
}

func (f *funcFetcher) Suggest(ctx context.Context, q gateway.SearchQuery) ([]gateway.Suggestion, error) {
	f.mu.Lock()
	f.suggests = append(f.suggests, q)
	f.mu.Unlock()
	if f.suggest == nil {
		return []gateway.Suggestion{{ID: 1, DisplayName: q.Text}}, nil
	}
	return f.suggest(q)
}

func (f *funcFetcher) suggestCalls() []gateway.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.SearchQuery(nil), f.suggests...)
}

func (f *funcFetcher) searchCalls() []gateway.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.SearchQuery(nil), f.searched...)
}

type reply struct {
	result      gateway.SearchResult
	suggestions []gateway.Suggestion
	err         error
}

type pendingCall struct {
	query gateway.SearchQuery
	reply chan reply
}

// gatedFetcher parks every call until the test answers it, so tests can
// control the order in which responses arrive.
type gatedFetcher struct {
	searches chan pendingCall
	suggests chan pendingCall
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		searches: make(chan pendingCall, 16),
		suggests: make(chan pendingCall, 16),
	}
}

func (f *gatedFetcher) park(ctx context.Context, ch chan pendingCall, q gateway.SearchQuery) (reply, error) {
	call := pendingCall{query: q, reply: make(chan reply, 1)}
	ch <- call
	select {
	case r := <-call.reply:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

func (f *gatedFetcher) Search(ctx context.Context, q gateway.SearchQuery) (gateway.SearchResult, error) {
	r, err := f.park(ctx, f.searches, q)
	return r.result, err
}

func (f *gatedFetcher) Suggest(ctx context.Context, q gateway.SearchQuery) ([]gateway.Suggestion, error) {
	r, err := f.park(ctx, f.suggests, q)
	return r.suggestions, err
}

func movie(id int, title string) gateway.MovieResult {
	return gateway.MovieResult{
		TMDB:      gateway.MovieInfo{ID: id, Title: title, ReleaseDate: "2010-07-16"},
		Credits:   gateway.Credits{Director: "Christopher Nolan", Cast: []string{}},
		Providers: []gateway.Provider{},
	}
}

func filmography(subject string, n int) gateway.SearchResult {
	results := make([]gateway.MovieResult, n)
	for i := range results {
		results[i] = movie(i+1, subject)
	}
	return gateway.ListOf(gateway.PersonResult{SubjectName: subject, Results: results})
}

func suggestions(names ...string) []gateway.Suggestion {
	out := make([]gateway.Suggestion, len(names))
	for i, n := range names {
		out[i] = gateway.Suggestion{ID: i + 1, DisplayName: n}
	}
	return out
}
