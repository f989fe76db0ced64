package search

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for search operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new search handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the search routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/indexers", h.ListIndexers)
}

// searchParams are the query parameters accepted by the search endpoint.
type searchParams struct {
	Query     string `query:"query"`
	ImdbID    string `query:"imdbId"`
	MediaType string `query:"mediaType"`
	Indexers  string `query:"indexers"` // comma-separated indexer ids
}

// Search handles search requests.
// GET /api/v1/search?query=...&imdbId=...&mediaType=...&indexers=...
func (h *Handlers) Search(c echo.Context) error {
	var params searchParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request parameters",
		})
	}

	req := Request{
		Query:     params.Query,
		ImdbID:    params.ImdbID,
		MediaType: parseMediaType(params.MediaType),
	}
	if params.Indexers != "" {
		for _, id := range strings.Split(params.Indexers, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.Indexers = append(req.Indexers, id)
			}
		}
	}

	result, err := h.service.Search(c.Request().Context(), req)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"code":  reqErr.Code,
				"error": reqErr.Message,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, result)
}

// ListIndexers handles indexer listing for configuration and filter UIs.
// GET /api/v1/indexers
func (h *Handlers) ListIndexers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.ListIndexers())
}

func parseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie
	case "tv":
		return MediaTypeTV
	default:
		return MediaTypeUnknown
	}
}
