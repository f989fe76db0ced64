package search

import (
	"net/url"
	"strings"

	"github.com/jackbridge/jackbridge/internal/catalog"
)

// Torznab root categories used for media-type filtering.
const (
	categoryMovies = "2000"
	categoryTV     = "5000"
)

// BuildPlan translates a search request into per-indexer queries against the
// given catalog snapshot. It fails with ErrInvalidRequest when the request
// carries neither query text nor an IMDB id, and with ErrNoMatchingIndexers
// when no catalog indexer survives the request's filter.
func BuildPlan(req Request, snap catalog.Snapshot) ([]PlannedQuery, error) {
	query := strings.TrimSpace(req.Query)
	imdbID := strings.TrimSpace(req.ImdbID)

	if query == "" && imdbID == "" {
		return nil, NewInvalidRequestError("at least one of query or imdbId is required")
	}

	selected := selectIndexers(req.Indexers, snap)
	if len(selected) == 0 {
		return nil, NewNoMatchingIndexersError("no configured indexer matches the request")
	}

	plan := make([]PlannedQuery, 0, len(selected))
	for _, idx := range selected {
		plan = append(plan, PlannedQuery{
			IndexerID:   idx.ID,
			IndexerName: idx.Name,
			Params:      buildParams(query, imdbID, req.MediaType, idx),
		})
	}

	return plan, nil
}

// selectIndexers intersects the request filter with the catalog, preserving
// catalog order. An empty filter selects the whole catalog.
func selectIndexers(filter []string, snap catalog.Snapshot) []catalog.IndexerDescriptor {
	if len(filter) == 0 {
		return snap.Indexers
	}

	wanted := make(map[string]struct{}, len(filter))
	for _, id := range filter {
		wanted[id] = struct{}{}
	}

	selected := make([]catalog.IndexerDescriptor, 0, len(filter))
	for _, idx := range snap.Indexers {
		if _, ok := wanted[idx.ID]; ok {
			selected = append(selected, idx)
		}
	}
	return selected
}

// buildParams constructs the query parameters for a single indexer.
func buildParams(query, imdbID string, mediaType MediaType, idx catalog.IndexerDescriptor) url.Values {
	params := url.Values{}

	if imdbID != "" && idx.SupportsImdb {
		params.Set("imdbid", imdbID)
	} else if query != "" {
		params.Set("Query", query)
	} else {
		// No query text and the indexer cannot take the IMDB id directly;
		// fall back to the id as free text rather than skipping the indexer.
		params.Set("Query", imdbID)
	}

	if idx.SupportsCategory {
		switch mediaType {
		case MediaTypeMovie:
			params.Add("Category[]", categoryMovies)
		case MediaTypeTV:
			params.Add("Category[]", categoryTV)
		}
	}

	return params
}
