package metadata

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/metrics"
)

// User-facing gateway messages.
const (
	msgNoParameters    = "Nessun parametro fornito"
	msgMovieNotFound   = "Film non trovato"
	msgPersonNotFound  = "Persona non trovata"
	msgSearchFailed    = "Errore durante la ricerca."
	msgInvalidID       = "Parametro id non valido"
	msgNotConfigured   = "Nessun provider di metadati configurato"
	minSuggestQueryLen = 2
)

// Searcher is the subset of Service the handlers use.
type Searcher interface {
	Search(ctx context.Context, query string, t gateway.SearchType, sortBy gateway.SortBy) (gateway.SearchResult, error)
	MovieByID(ctx context.Context, id int) (gateway.MovieResult, error)
	Suggest(ctx context.Context, query string, t gateway.SearchType) ([]gateway.Suggestion, error)
}

// Handlers serves the gateway's JSON endpoints.
type Handlers struct {
	service Searcher
	logger  zerolog.Logger
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service Searcher, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.With().Str("component", "gateway").Logger(),
	}
}

// RegisterRoutes registers the gateway routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/suggest", h.Suggest)
}

// Search resolves a movie by id or a free-text query. id takes precedence.
// GET /search?q=...&type=movie|person|director&sort_by=...
// GET /search?id=...
func (h *Handlers) Search(c echo.Context) error {
	ctx := c.Request().Context()
	t := gateway.ParseSearchType(c.QueryParam("type"))

	if idStr := c.QueryParam("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, gateway.ErrorOf(msgInvalidID))
		}

		movie, err := h.service.MovieByID(ctx, id)
		if err != nil {
			return h.lookupError(c, gateway.TypeMovie, err)
		}
		metrics.GatewayLookupsTotal.WithLabelValues(string(gateway.TypeMovie), metrics.OutcomeOK).Inc()
		return c.JSON(http.StatusOK, gateway.MovieOf(movie))
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusOK, gateway.ErrorOf(msgNoParameters))
	}

	result, err := h.service.Search(ctx, query, t, gateway.ParseSortBy(c.QueryParam("sort_by")))
	if err != nil {
		return h.lookupError(c, t, err)
	}

	metrics.GatewayLookupsTotal.WithLabelValues(string(t), metrics.OutcomeOK).Inc()
	return c.JSON(http.StatusOK, result)
}

// Suggest returns autocomplete candidates for a partial query.
// GET /suggest?q=...&type=...
func (h *Handlers) Suggest(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if len([]rune(query)) < minSuggestQueryLen {
		return c.JSON(http.StatusOK, gateway.SuggestResponse{Results: []gateway.Suggestion{}})
	}

	results, err := h.service.Suggest(c.Request().Context(), query, gateway.ParseSearchType(c.QueryParam("type")))
	if err != nil {
		if errors.Is(err, ErrNoProvidersConfigured) {
			return c.JSON(http.StatusServiceUnavailable, gateway.ErrorOf(msgNotConfigured))
		}
		h.logger.Debug().Err(err).Str("query", query).Msg("Suggest lookup failed")
		return c.JSON(http.StatusBadGateway, gateway.ErrorOf(msgSearchFailed))
	}

	return c.JSON(http.StatusOK, gateway.SuggestResponse{Results: results})
}

func (h *Handlers) lookupError(c echo.Context, t gateway.SearchType, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		// A miss is an answer, not a failure: the message is shown to the user.
		metrics.GatewayLookupsTotal.WithLabelValues(string(t), metrics.OutcomeNotFound).Inc()
		if t.IsPeople() {
			return c.JSON(http.StatusOK, gateway.ErrorOf(msgPersonNotFound))
		}
		return c.JSON(http.StatusOK, gateway.ErrorOf(msgMovieNotFound))
	case errors.Is(err, ErrNoProvidersConfigured):
		metrics.GatewayLookupsTotal.WithLabelValues(string(t), metrics.OutcomeError).Inc()
		return c.JSON(http.StatusServiceUnavailable, gateway.ErrorOf(msgNotConfigured))
	default:
		metrics.GatewayLookupsTotal.WithLabelValues(string(t), metrics.OutcomeError).Inc()
		h.logger.Error().Err(err).Str("type", string(t)).Msg("Search lookup failed")
		return c.JSON(http.StatusBadGateway, gateway.ErrorOf(msgSearchFailed))
	}
}
