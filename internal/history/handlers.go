package history

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for the search history.
type Handlers struct {
	service *Service
}

// NewHandlers creates new history handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/history", h.List)
}

// List returns recent searches, newest first.
// GET /api/v1/history?limit=...
func (h *Handlers) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.service.List(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, entries)
}
