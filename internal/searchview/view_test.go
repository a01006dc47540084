package searchview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefinder/cinefinder/internal/gateway"
)

func newTestView(t *testing.T, f Fetcher) *View {
	t.Helper()
	v := New(context.Background(), f, Options{BlurDelay: 20 * time.Millisecond, Logger: zerolog.Nop()})
	t.Cleanup(v.Close)
	return v
}

func next(t *testing.T, ch chan pendingCall) pendingCall {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fetch")
		return pendingCall{}
	}
}

func TestView_ShortInputIssuesNoFetch(t *testing.T) {
	f := &funcFetcher{}
	v := newTestView(t, f)

	for _, text := range []string{"", "a", "  b  ", " ", "é"} {
		v.Input(text)
		v.Focus()
	}
	v.Wait()

	assert.Empty(t, f.suggestCalls())
	s := v.Snapshot()
	assert.Empty(t, s.Suggestions)
	assert.False(t, s.ShowSuggestions())
}

func TestView_ShortInputClearsShownSuggestions(t *testing.T) {
	f := &funcFetcher{}
	v := newTestView(t, f)

	v.Input("Inc")
	v.Wait()
	require.True(t, v.Snapshot().ShowSuggestions())

	v.Input("I")
	v.Wait()
	assert.Empty(t, v.Snapshot().Suggestions)
	assert.Equal(t, SuggestIdle, v.Snapshot().Suggest)
}

func TestView_SuggestionsCappedAtFive(t *testing.T) {
	f := &funcFetcher{suggest: func(q gateway.SearchQuery) ([]gateway.Suggestion, error) {
		return suggestions("a", "b", "c", "d", "e", "f", "g"), nil
	}}
	v := newTestView(t, f)

	v.Input("Rocky")
	v.Wait()

	s := v.Snapshot()
	assert.Len(t, s.Suggestions, MaxSuggestions)
	assert.True(t, s.ShowSuggestions())
	assert.Equal(t, Suggesting, s.Suggest)
}

func TestView_SuggestionsKeyedByType(t *testing.T) {
	f := &funcFetcher{}
	v := newTestView(t, f)

	v.SetType(gateway.TypeDirector)
	v.Input("Leone")
	v.Wait()

	calls := f.suggestCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, gateway.SearchQuery{Text: "Leone", Type: gateway.TypeDirector}, calls[0])
}

func TestView_SuggestionFailureIsSilent(t *testing.T) {
	f := &funcFetcher{suggest: func(q gateway.SearchQuery) ([]gateway.Suggestion, error) {
		return nil, errors.New("connection refused")
	}}
	v := newTestView(t, f)

	v.Input("Inception")
	v.Wait()

	s := v.Snapshot()
	assert.Empty(t, s.Suggestions)
	assert.Equal(t, SuggestIdle, s.Suggest)
	assert.Equal(t, PrimaryIdle, s.Primary)
	assert.Empty(t, s.Error())
}

func TestView_StaleSuggestionDiscarded(t *testing.T) {
	f := newGatedFetcher()
	v := newTestView(t, f)

	v.Input("In")
	first := next(t, f.suggests)
	v.Input("Inc")
	second := next(t, f.suggests)

	second.reply <- reply{suggestions: suggestions("Inception")}
	first.reply <- reply{suggestions: suggestions("Indiana Jones")}
	v.Wait()

	s := v.Snapshot()
	require.Len(t, s.Suggestions, 1)
	assert.Equal(t, "Inception", s.Suggestions[0].DisplayName)
}

func TestView_SubmitLoadingLifecycle(t *testing.T) {
	f := newGatedFetcher()
	v := newTestView(t, f)

	v.Input("Inception")
	call := next(t, f.suggests)
	call.reply <- reply{}

	v.Submit()
	search := next(t, f.searches)
	assert.Equal(t, gateway.SearchQuery{Text: "Inception", Type: gateway.TypeMovie}, search.query)

	s := v.Snapshot()
	assert.True(t, s.Loading())
	assert.True(t, s.Result.IsZero())
	assert.Empty(t, s.Error())

	search.reply <- reply{result: gateway.MovieOf(movie(27205, "Inception"))}
	v.Wait()

	s = v.Snapshot()
	assert.False(t, s.Loading())
	assert.Equal(t, PrimaryResulted, s.Primary)
	require.NotNil(t, s.Movie())
	assert.Equal(t, "Inception", s.Movie().TMDB.Title)
}

func TestView_StaleSearchDoesNotEndLoading(t *testing.T) {
	f := newGatedFetcher()
	v := newTestView(t, f)

	v.Submit()
	first := next(t, f.searches)
	v.Submit()
	second := next(t, f.searches)

	first.reply <- reply{result: gateway.MovieOf(movie(1, "old"))}
	assert.Never(t, func() bool { return !v.Snapshot().Loading() }, 50*time.Millisecond, 5*time.Millisecond)

	second.reply <- reply{result: gateway.MovieOf(movie(2, "new"))}
	v.Wait()

	s := v.Snapshot()
	assert.False(t, s.Loading())
	assert.Equal(t, "new", s.Movie().TMDB.Title)
}

func TestView_OutOfOrderSearchKeepsLatest(t *testing.T) {
	f := newGatedFetcher()
	v := newTestView(t, f)

	v.Submit()
	first := next(t, f.searches)
	v.Submit()
	second := next(t, f.searches)

	second.reply <- reply{result: gateway.MovieOf(movie(2, "latest"))}
	first.reply <- reply{result: filmography("slow", 4)}
	v.Wait()

	s := v.Snapshot()
	assert.Nil(t, s.List())
	assert.Equal(t, "latest", s.Movie().TMDB.Title)
}

func TestView_WholesaleReplace(t *testing.T) {
	results := []gateway.SearchResult{filmography("Tom Hanks", 5), gateway.MovieOf(movie(13, "Forrest Gump"))}
	i := 0
	f := &funcFetcher{search: func(q gateway.SearchQuery) (gateway.SearchResult, error) {
		r := results[i]
		i++
		return r, nil
	}}
	v := newTestView(t, f)

	v.Submit()
	v.Wait()
	require.NotNil(t, v.Snapshot().List())

	v.Submit()
	v.Wait()
	s := v.Snapshot()
	assert.Nil(t, s.List())
	assert.Equal(t, results[1], s.Result)
}

func TestView_FailureGenericMessage(t *testing.T) {
	for name, fetch := range map[string]func(gateway.SearchQuery) (gateway.SearchResult, error){
		"transport": func(gateway.SearchQuery) (gateway.SearchResult, error) {
			return gateway.SearchResult{}, errors.New("dial tcp: connection refused")
		},
		"status": func(gateway.SearchQuery) (gateway.SearchResult, error) {
			return gateway.SearchResult{}, gateway.ErrUnexpectedStatus
		},
		"malformed": func(gateway.SearchQuery) (gateway.SearchResult, error) {
			return gateway.SearchResult{}, gateway.ErrMalformed
		},
		"panic": func(gateway.SearchQuery) (gateway.SearchResult, error) {
			panic("boom")
		},
	} {
		t.Run(name, func(t *testing.T) {
			v := newTestView(t, &funcFetcher{search: fetch})

			v.Input("Inception")
			v.Submit()
			v.Wait()

			s := v.Snapshot()
			assert.False(t, s.Loading())
			assert.Equal(t, PrimaryFailed, s.Primary)
			assert.Equal(t, MsgRequestFailed, s.Error())
			assert.Nil(t, s.Movie())
		})
	}
}

func TestView_GatewayErrorBody(t *testing.T) {
	f := &funcFetcher{search: func(gateway.SearchQuery) (gateway.SearchResult, error) {
		return gateway.ErrorOf("Nessun parametro fornito"), nil
	}}
	v := newTestView(t, f)

	v.Submit()
	v.Wait()

	s := v.Snapshot()
	assert.Equal(t, PrimaryFailed, s.Primary)
	assert.Equal(t, "Nessun parametro fornito", s.Error())
}

func TestView_IncrementalReveal(t *testing.T) {
	f := &funcFetcher{search: func(gateway.SearchQuery) (gateway.SearchResult, error) {
		return filmography("Christopher Nolan", 7), nil
	}}
	v := newTestView(t, f)

	v.SetType(gateway.TypePerson)
	v.Input("Nolan")
	v.Submit()
	v.Wait()

	s := v.Snapshot()
	assert.Len(t, s.VisibleMovies(), 3)
	assert.True(t, s.CanShowMore())

	v.ShowMore()
	s = v.Snapshot()
	assert.Len(t, s.VisibleMovies(), 6)
	assert.True(t, s.CanShowMore())

	v.ShowMore()
	s = v.Snapshot()
	assert.Len(t, s.VisibleMovies(), 7)
	assert.False(t, s.CanShowMore())

	v.ShowMore()
	assert.Len(t, v.Snapshot().VisibleMovies(), 7)

	v.Submit()
	v.Wait()
	s = v.Snapshot()
	assert.Equal(t, 3, s.Reveal.Visible)
	assert.Len(t, s.VisibleMovies(), 3)
}

func TestView_SelectSubmitsSuggestion(t *testing.T) {
	f := &funcFetcher{suggest: func(q gateway.SearchQuery) ([]gateway.Suggestion, error) {
		return suggestions("Inception", "Inception: The Cobol Job"), nil
	}}
	v := newTestView(t, f)

	v.Input("Incep")
	v.Wait()

	assert.False(t, v.Select(5))
	assert.False(t, v.Select(-1))
	require.True(t, v.Select(1))

	s := v.Snapshot()
	assert.Equal(t, "Inception: The Cobol Job", s.Text)
	assert.False(t, s.ShowSuggestions())

	v.Wait()
	calls := f.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Inception: The Cobol Job", calls[0].Text)
	assert.Equal(t, PrimaryResulted, v.Snapshot().Primary)
}

func TestView_BlurHidesAfterDelay(t *testing.T) {
	v := newTestView(t, &funcFetcher{})

	v.Input("Inception")
	v.Wait()
	v.Blur()
	assert.True(t, v.Snapshot().ShowSuggestions(), "hidden before the delay")

	assert.Eventually(t, func() bool { return !v.Snapshot().ShowSuggestions() }, time.Second, 5*time.Millisecond)
}

func TestView_FocusCancelsPendingBlur(t *testing.T) {
	v := newTestView(t, &funcFetcher{})

	v.Input("Inception")
	v.Wait()
	v.Blur()
	v.Focus()
	v.Wait()

	assert.Never(t, func() bool { return !v.Snapshot().ShowSuggestions() }, 60*time.Millisecond, 5*time.Millisecond)
}

func TestView_SubmitAndSuggestInFlightTogether(t *testing.T) {
	f := newGatedFetcher()
	v := newTestView(t, f)

	v.Input("Inc")
	suggest := next(t, f.suggests)
	v.Submit()
	search := next(t, f.searches)

	suggest.reply <- reply{suggestions: suggestions("Inception")}
	assert.Eventually(t, func() bool { return v.Snapshot().ShowSuggestions() }, time.Second, 5*time.Millisecond)
	assert.True(t, v.Snapshot().Loading())

	search.reply <- reply{result: gateway.MovieOf(movie(27205, "Inception"))}
	v.Wait()
	assert.False(t, v.Snapshot().Loading())
}

func TestView_CloseAbandonsFetches(t *testing.T) {
	f := newGatedFetcher()
	v := New(context.Background(), f, Options{Logger: zerolog.Nop()})
	changes := v.Subscribe()

	v.Submit()
	next(t, f.searches)
	v.Close()
	v.Wait()

	assert.True(t, v.Snapshot().Loading(), "responses after Close are not applied")
	assert.True(t, v.Closed())

	for range changes {
	}
}

func TestView_SubscribeSignalsChanges(t *testing.T) {
	v := newTestView(t, &funcFetcher{})
	changes := v.Subscribe()

	v.Submit()
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("no change signal after Submit")
	}
}

func TestView_SetTextSkipsSuggestions(t *testing.T) {
	f := &funcFetcher{}
	v := newTestView(t, f)

	v.SetText("Inception")
	v.Submit()
	v.Wait()

	assert.Empty(t, f.suggestCalls())
	require.Len(t, f.searchCalls(), 1)
	assert.Equal(t, "Inception", f.searchCalls()[0].Text)
	assert.Equal(t, PrimaryResulted, v.Snapshot().Primary)
}
