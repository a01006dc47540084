package searchview

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/gateway"
)

// DetailKind selects what a Detail page shows.
type DetailKind int

const (
	DetailMovie DetailKind = iota
	DetailPerson
	DetailDirector
)

func (k DetailKind) String() string {
	switch k {
	case DetailPerson:
		return "person"
	case DetailDirector:
		return "director"
	default:
		return "movie"
	}
}

// DetailFetcher is the gateway as seen by detail pages.
type DetailFetcher interface {
	Movie(ctx context.Context, id int) (gateway.SearchResult, error)
	Filmography(ctx context.Context, name string, t gateway.SearchType, sortBy gateway.SortBy) (gateway.SearchResult, error)
}

// DetailState is an immutable snapshot of a Detail.
type DetailState struct {
	Kind    DetailKind
	MovieID int
	Name    string
	SortBy  gateway.SortBy
	Outcome
}

// Detail is the single-fetch state machine behind the movie, person and
// director pages. It has no suggestion track.
type Detail struct {
	machine

	fetcher DetailFetcher
	logger  zerolog.Logger
	state   DetailState
	seq     uint64
}

// NewMovieDetail creates the detail view for a movie id.
func NewMovieDetail(ctx context.Context, fetcher DetailFetcher, id int, opts Options) *Detail {
	return newDetail(ctx, fetcher, DetailState{Kind: DetailMovie, MovieID: id}, opts)
}

// NewPersonDetail creates the filmography view of an actor.
func NewPersonDetail(ctx context.Context, fetcher DetailFetcher, name string, sortBy gateway.SortBy, opts Options) *Detail {
	return newDetail(ctx, fetcher, DetailState{Kind: DetailPerson, Name: name, SortBy: gateway.ParseSortBy(string(sortBy))}, opts)
}

// NewDirectorDetail creates the filmography view of a director.
func NewDirectorDetail(ctx context.Context, fetcher DetailFetcher, name string, opts Options) *Detail {
	return newDetail(ctx, fetcher, DetailState{Kind: DetailDirector, Name: name}, opts)
}

func newDetail(ctx context.Context, fetcher DetailFetcher, state DetailState, opts Options) *Detail {
	state.Reveal = NewReveal(opts.RevealStep)
	d := &Detail{
		fetcher: fetcher,
		logger:  opts.Logger.With().Str("component", "detail").Str("kind", state.Kind.String()).Logger(),
		state:   state,
	}
	d.init(ctx)
	return d
}

// Snapshot returns a copy of the current state.
func (d *Detail) Snapshot() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Load issues the page's fetch. A newer Load supersedes an older one.
func (d *Detail) Load() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.loadLocked()
	d.notifyLocked()
}

// SetSort changes the filmography order of a person page and fetches
// again. It reports false for other kinds.
func (d *Detail) SetSort(sortBy gateway.SortBy) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.state.Kind != DetailPerson {
		return false
	}
	d.state.SortBy = gateway.ParseSortBy(string(sortBy))
	d.loadLocked()
	d.notifyLocked()
	return true
}

// ShowMore reveals the next entries of a filmography.
func (d *Detail) ShowMore() {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.state.List()
	if d.closed || list == nil || !d.state.Reveal.HasMore(len(list.Results)) {
		return
	}
	d.state.Reveal.More(len(list.Results))
	d.notifyLocked()
}

func (d *Detail) loadLocked() {
	d.seq++
	seq := d.seq
	req := d.state

	d.state.Primary = PrimaryLoading
	d.state.Result = gateway.SearchResult{}
	d.state.Reveal.Reset()

	d.beginLocked()
	go d.run(seq, req)
}

func (d *Detail) run(seq uint64, req DetailState) {
	var (
		result gateway.SearchResult
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detail fetch panicked: %v", r)
		}
		d.finish(seq, result, err)
		d.end()
	}()

	switch req.Kind {
	case DetailMovie:
		result, err = d.fetcher.Movie(d.ctx, req.MovieID)
	case DetailPerson:
		result, err = d.fetcher.Filmography(d.ctx, req.Name, gateway.TypePerson, req.SortBy)
	case DetailDirector:
		result, err = d.fetcher.Filmography(d.ctx, req.Name, gateway.TypeDirector, "")
	}
}

func (d *Detail) finish(seq uint64, result gateway.SearchResult, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || seq != d.seq {
		return
	}

	if err != nil {
		d.logger.Warn().Err(err).Int("id", d.state.MovieID).Str("name", d.state.Name).Msg("Detail fetch failed")
	}

	d.state.Primary, d.state.Result = classifyDetail(d.state.Kind, result, err)
	d.state.Reveal.Reset()
	d.notifyLocked()
}

// classifyDetail maps a fetch outcome to a terminal phase. A movie page
// treats an absent movie like a failed request.
func classifyDetail(kind DetailKind, result gateway.SearchResult, err error) (PrimaryPhase, gateway.SearchResult) {
	if kind == DetailMovie {
		if err != nil || result.Kind != gateway.KindMovie {
			return PrimaryFailed, gateway.ErrorOf(MsgMovieNotFound)
		}
		return PrimaryResulted, result
	}

	switch {
	case err != nil:
		return PrimaryFailed, gateway.ErrorOf(MsgSearchFailed)
	case result.Kind == gateway.KindError:
		return PrimaryFailed, result
	case result.Kind == gateway.KindList:
		return PrimaryResulted, result
	default:
		return PrimaryFailed, gateway.ErrorOf(MsgSearchFailed)
	}
}
