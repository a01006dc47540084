package searchview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/metrics"
)

// DefaultBlurDelay is how long suggestions stay visible after the input
// loses focus, so a click on a suggestion still lands.
const DefaultBlurDelay = 150 * time.Millisecond

// Fetcher is the gateway as seen by the search box.
type Fetcher interface {
	Search(ctx context.Context, q gateway.SearchQuery) (gateway.SearchResult, error)
	Suggest(ctx context.Context, q gateway.SearchQuery) ([]gateway.Suggestion, error)
}

// Options tunes a View or Detail.
type Options struct {
	BlurDelay  time.Duration
	RevealStep int
	Logger     zerolog.Logger
}

func (o Options) blurDelay() time.Duration {
	if o.BlurDelay <= 0 {
		return DefaultBlurDelay
	}
	return o.BlurDelay
}

// View is the search box state machine. Suggestions and primary search are
// tracked independently; each category carries a sequence number and only
// the response to the latest request in a category is applied.
type View struct {
	machine

	fetcher   Fetcher
	blurDelay time.Duration
	logger    zerolog.Logger

	state      State
	primarySeq uint64
	suggestSeq uint64
	blurTimer  *time.Timer
	blurSeq    uint64
}

// New creates a View. Fetches run under ctx; cancelling it or calling
// Close abandons them.
func New(ctx context.Context, fetcher Fetcher, opts Options) *View {
	v := &View{
		fetcher:   fetcher,
		blurDelay: opts.blurDelay(),
		logger:    opts.Logger.With().Str("component", "searchview").Logger(),
		state: State{
			Type:    gateway.TypeMovie,
			Outcome: Outcome{Reveal: NewReveal(opts.RevealStep)},
		},
	}
	v.init(ctx)
	return v
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// SetType changes the search type. Suggestions for the old type are
// dropped.
func (v *View) SetType(t gateway.SearchType) {
	v.mu.Lock()
	defer v.mu.Unlock()

	t = gateway.ParseSearchType(string(t))
	if v.closed || v.state.Type == t {
		return
	}
	v.state.Type = t
	v.hideSuggestionsLocked()
	v.notifyLocked()
}

// Input stores the query text and refreshes suggestions.
func (v *View) Input(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.state.Text = text
	v.suggestLocked()
	v.notifyLocked()
}

// SetText stores the query text without fetching suggestions. Form
// submissions use it before Submit.
func (v *View) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.state.Text == text {
		return
	}
	v.state.Text = text
	v.hideSuggestionsLocked()
	v.notifyLocked()
}

// Focus refreshes suggestions for the current text.
func (v *View) Focus() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.suggestLocked()
	v.notifyLocked()
}

// Blur hides suggestions after the blur delay. A later Input or Focus
// cancels the pending hide.
func (v *View) Blur() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.stopBlurLocked()
	gen := v.blurSeq
	v.blurTimer = time.AfterFunc(v.blurDelay, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed || gen != v.blurSeq {
			return
		}
		v.blurTimer = nil
		v.hideSuggestionsLocked()
		v.notifyLocked()
	})
}

// Select replaces the text with suggestion i, hides the list and submits.
// It reports false when i is out of range.
func (v *View) Select(i int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || i < 0 || i >= len(v.state.Suggestions) {
		return false
	}
	v.state.Text = v.state.Suggestions[i].DisplayName
	v.hideSuggestionsLocked()
	v.submitLocked()
	v.notifyLocked()
	return true
}

// Submit starts a primary search for the current text and type.
func (v *View) Submit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.submitLocked()
	v.notifyLocked()
}

// ShowMore reveals the next entries of a filmography result.
func (v *View) ShowMore() {
	v.mu.Lock()
	defer v.mu.Unlock()

	list := v.state.List()
	if v.closed || list == nil || !v.state.Reveal.HasMore(len(list.Results)) {
		return
	}
	v.state.Reveal.More(len(list.Results))
	v.notifyLocked()
}

// Close stops the blur timer and abandons in-flight fetches.
func (v *View) Close() {
	v.mu.Lock()
	v.stopBlurLocked()
	v.mu.Unlock()
	v.machine.Close()
}

func (v *View) suggestLocked() {
	v.stopBlurLocked()
	v.suggestSeq++
	seq := v.suggestSeq

	if len([]rune(strings.TrimSpace(v.state.Text))) < MinSuggestLength {
		v.state.Suggestions = nil
		v.state.Suggest = SuggestIdle
		return
	}

	q := v.state.Query()
	v.beginLocked()
	go v.runSuggest(seq, q)
}

func (v *View) runSuggest(seq uint64, q gateway.SearchQuery) {
	defer v.end()

	suggestions, err := v.fetcher.Suggest(v.ctx, q)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || seq != v.suggestSeq {
		return
	}
	if err != nil {
		v.logger.Debug().Err(err).Str("query", q.Text).Msg("Suggestion fetch failed")
		v.state.Suggestions = nil
		v.state.Suggest = SuggestIdle
		v.notifyLocked()
		return
	}

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	v.state.Suggestions = append([]gateway.Suggestion(nil), suggestions...)
	v.state.Suggest = SuggestIdle
	if len(v.state.Suggestions) > 0 {
		v.state.Suggest = Suggesting
	}
	v.notifyLocked()
}

// hideSuggestionsLocked clears the list and invalidates in-flight
// suggestion fetches.
func (v *View) hideSuggestionsLocked() {
	v.stopBlurLocked()
	v.suggestSeq++
	v.state.Suggestions = nil
	v.state.Suggest = SuggestIdle
}

func (v *View) stopBlurLocked() {
	v.blurSeq++
	if v.blurTimer != nil {
		v.blurTimer.Stop()
		v.blurTimer = nil
	}
}

func (v *View) submitLocked() {
	v.primarySeq++
	seq := v.primarySeq
	q := v.state.Query()

	v.state.Primary = PrimaryLoading
	v.state.Result = gateway.SearchResult{}
	v.state.Reveal.Reset()

	v.beginLocked()
	go v.runSearch(seq, q)
}

func (v *View) runSearch(seq uint64, q gateway.SearchQuery) {
	var (
		result gateway.SearchResult
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search fetch panicked: %v", r)
		}
		v.finishSearch(seq, q, result, err)
		v.end()
	}()

	result, err = v.fetcher.Search(v.ctx, q)
}

// finishSearch leaves the Loading phase unless a newer submit superseded
// this one.
func (v *View) finishSearch(seq uint64, q gateway.SearchQuery, result gateway.SearchResult, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || seq != v.primarySeq {
		v.logger.Debug().Uint64("seq", seq).Str("query", q.Text).Msg("Discarding stale search response")
		return
	}

	switch {
	case err != nil:
		v.logger.Warn().Err(err).Str("query", q.Text).Str("type", string(q.Type)).Msg("Search request failed")
		v.state.Primary = PrimaryFailed
		v.state.Result = gateway.ErrorOf(MsgRequestFailed)
	case result.Kind == gateway.KindError:
		v.state.Primary = PrimaryFailed
		v.state.Result = result
	case result.Kind == gateway.KindMovie, result.Kind == gateway.KindList:
		v.state.Primary = PrimaryResulted
		v.state.Result = result
	default:
		v.state.Primary = PrimaryFailed
		v.state.Result = gateway.ErrorOf(MsgRequestFailed)
	}
	v.state.Reveal.Reset()

	metrics.SearchSubmissionsTotal.WithLabelValues(v.state.Result.Kind.String()).Inc()
	v.notifyLocked()
}
