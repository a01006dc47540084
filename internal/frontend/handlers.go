// Package frontend serves the HTML pages. Each request drives a search
// view or detail view to completion and renders the resulting snapshot.
// The index page also loads the live client, which talks to the
// websocket hub instead.
package frontend

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/render"
	"github.com/cinefinder/cinefinder/internal/searchview"
	"github.com/cinefinder/cinefinder/web"
)

// Gateway is the search gateway as seen by every page.
type Gateway interface {
	searchview.Fetcher
	searchview.DetailFetcher
}

// Handlers serves the index, movie, person and director pages.
type Handlers struct {
	gateway Gateway
	opts    searchview.Options
	logger  zerolog.Logger
}

// NewHandlers creates the page handlers. Pages are rendered through the
// echo instance's Renderer.
func NewHandlers(gw Gateway, opts searchview.Options, logger zerolog.Logger) *Handlers {
	opts.Logger = logger
	return &Handlers{
		gateway: gw,
		opts:    opts,
		logger:  logger.With().Str("component", "frontend").Logger(),
	}
}

// RegisterRoutes mounts the pages and static assets.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/movie/:id", h.Movie)
	e.GET("/person/:name", h.Person)
	e.GET("/director/:name", h.Director)
	e.StaticFS("/static", web.StaticFS())
}

// Index renders the search page. With q set it runs the search first.
// GET /?q=...&type=...&visible=...
func (h *Handlers) Index(c echo.Context) error {
	view := searchview.New(c.Request().Context(), h.gateway, h.opts)
	defer view.Close()

	view.SetType(gateway.ParseSearchType(c.QueryParam("type")))

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		view.SetText(q)
		view.Submit()
		view.Wait()
		revealUpTo(view, func() searchview.Outcome { return view.Snapshot().Outcome }, requestedVisible(c))
	}

	state := view.Snapshot()
	panel := render.Search(state)
	if list := panel.Results.List; list != nil && list.HasMore {
		list.MoreURL = "/?" + url.Values{
			"q":       {state.Text},
			"type":    {string(state.Type)},
			"visible": {strconv.Itoa(len(list.Cards) + h.revealStep())},
		}.Encode()
	}

	return c.Render(http.StatusOK, "index", render.IndexPage{Search: panel, Live: true})
}

// Movie renders the detail page of one movie.
// GET /movie/:id
func (h *Handlers) Movie(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		state := searchview.DetailState{
			Kind:    searchview.DetailMovie,
			Outcome: searchview.Outcome{Primary: searchview.PrimaryFailed, Result: gateway.ErrorOf(searchview.MsgMovieNotFound)},
		}
		return c.Render(http.StatusNotFound, "movie", render.Movie(state))
	}

	detail := searchview.NewMovieDetail(c.Request().Context(), h.gateway, id, h.opts)
	defer detail.Close()

	state := load(detail)
	status := http.StatusOK
	if state.Primary == searchview.PrimaryFailed {
		status = http.StatusNotFound
	}
	return c.Render(status, "movie", render.Movie(state))
}

// Person renders an actor's filmography.
// GET /person/:name?sort_by=vote_average|popularity&visible=...
func (h *Handlers) Person(c echo.Context) error {
	name, err := pathName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	detail := searchview.NewPersonDetail(c.Request().Context(), h.gateway, name, gateway.SortVoteAverage, h.opts)
	defer detail.Close()

	// The sort selector submits ?sort_by=, which re-fetches in the new order.
	sortBy := gateway.SortVoteAverage
	if raw := c.QueryParam("sort_by"); raw != "" {
		sortBy = gateway.ParseSortBy(raw)
		detail.SetSort(sortBy)
		detail.Wait()
	} else {
		load(detail)
	}
	revealUpTo(detail, func() searchview.Outcome { return detail.Snapshot().Outcome }, requestedVisible(c))

	page := render.Person(detail.Snapshot())
	if list := page.Results.List; list != nil && list.HasMore {
		list.MoreURL = render.PersonURL(name) + "?" + url.Values{
			"sort_by": {string(sortBy)},
			"visible": {strconv.Itoa(len(list.Cards) + h.revealStep())},
		}.Encode()
	}
	return c.Render(http.StatusOK, "person", page)
}

// Director renders a director's filmography.
// GET /director/:name?visible=...
func (h *Handlers) Director(c echo.Context) error {
	name, err := pathName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	detail := searchview.NewDirectorDetail(c.Request().Context(), h.gateway, name, h.opts)
	defer detail.Close()

	load(detail)
	revealUpTo(detail, func() searchview.Outcome { return detail.Snapshot().Outcome }, requestedVisible(c))

	page := render.Director(detail.Snapshot())
	if list := page.Results.List; list != nil && list.HasMore {
		list.MoreURL = render.DirectorURL(name) + "?" + url.Values{
			"visible": {strconv.Itoa(len(list.Cards) + h.revealStep())},
		}.Encode()
	}
	return c.Render(http.StatusOK, "director", page)
}

func (h *Handlers) revealStep() int {
	if h.opts.RevealStep <= 0 {
		return searchview.DefaultRevealStep
	}
	return h.opts.RevealStep
}

func load(d *searchview.Detail) searchview.DetailState {
	d.Load()
	d.Wait()
	return d.Snapshot()
}

// revealer is satisfied by both View and Detail.
type revealer interface {
	ShowMore()
}

// revealUpTo presses "show more" until at least visible entries show or
// the list is exhausted.
func revealUpTo(r revealer, outcome func() searchview.Outcome, visible int) {
	for {
		o := outcome()
		if o.Reveal.Visible >= visible || !o.CanShowMore() {
			return
		}
		r.ShowMore()
	}
}

func requestedVisible(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("visible"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// pathName decodes a name path parameter.
func pathName(c echo.Context) (string, error) {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}
