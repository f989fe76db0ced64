package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jackbridge/jackbridge/internal/catalog"
	"github.com/jackbridge/jackbridge/internal/history"
)

// CatalogProvider supplies the current indexer catalog snapshot.
type CatalogProvider interface {
	Snapshot() catalog.Snapshot
}

// HistoryRecorder records completed searches.
type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Service orchestrates searches across the configured indexers.
type Service struct {
	catalog    CatalogProvider
	dispatcher *Dispatcher
	history    HistoryRecorder
	logger     zerolog.Logger

	// allowedIndexers is the configured global allow-list. Empty means all.
	allowedIndexers []string
}

// NewService creates a new search service.
func NewService(catalogProvider CatalogProvider, dispatcher *Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		catalog:    catalogProvider,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "search").Logger(),
	}
}

// SetHistoryRecorder sets the recorder for the search audit log.
func (s *Service) SetHistoryRecorder(recorder HistoryRecorder) {
	s.history = recorder
}

// SetAllowedIndexers restricts all searches to the given indexer ids.
// Per-request filters intersect with this list.
func (s *Service) SetAllowedIndexers(ids []string) {
	s.allowedIndexers = ids
}

// Search executes one logical search: build the query plan, fan it out, then
// normalize and aggregate the results. Only request-shape errors are returned;
// per-indexer faults are reported in the result's IndexerStatuses. A search
// where every indexer fails still returns an empty result successfully.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	searchID := uuid.NewString()
	startTime := time.Now()

	snap := s.catalog.Snapshot()

	req.Indexers = s.applyAllowList(req.Indexers)

	plan, err := BuildPlan(req, snap)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("searchId", searchID).
			Str("query", req.Query).
			Msg("search rejected")
		return nil, err
	}

	s.logger.Info().
		Str("searchId", searchID).
		Str("query", req.Query).
		Str("imdbId", req.ImdbID).
		Str("mediaType", string(req.MediaType)).
		Int("indexerCount", len(plan)).
		Int64("catalogVersion", snap.Version).
		Msg("starting search across indexers")

	responses := s.dispatcher.Dispatch(ctx, plan)

	perIndexer := make([][]TorrentRecord, 0, len(responses))
	statuses := make(map[string]IndexerStatus, len(responses))
	for _, resp := range responses {
		records, status := Normalize(resp)
		statuses[resp.IndexerID] = status
		perIndexer = append(perIndexer, records)

		if status.State == StateOK {
			s.logger.Debug().
				Str("searchId", searchID).
				Str("indexer", resp.IndexerID).
				Int("records", len(records)).
				Msg("received results from indexer")
		}
	}

	result := aggregate(perIndexer, statuses)

	elapsed := time.Since(startTime)
	s.logger.Info().
		Str("searchId", searchID).
		Int("records", len(result.Records)).
		Int("indexersQueried", len(plan)).
		Dur("elapsed", elapsed).
		Msg("search completed")

	s.recordHistory(ctx, searchID, req, len(plan), len(result.Records), elapsed)

	return result, nil
}

// ListIndexers returns the catalog's current indexer descriptors. This is a
// pass-through for configuration and filter UIs; it carries no search logic.
func (s *Service) ListIndexers() []catalog.IndexerDescriptor {
	return s.catalog.Snapshot().Indexers
}

// applyAllowList intersects the request filter with the configured global
// allow-list. An intersection that comes up empty keeps a sentinel entry so
// the planner reports NO_MATCHING_INDEXERS instead of searching everything.
func (s *Service) applyAllowList(requested []string) []string {
	if len(s.allowedIndexers) == 0 {
		return requested
	}
	if len(requested) == 0 {
		return s.allowedIndexers
	}

	allowed := make(map[string]struct{}, len(s.allowedIndexers))
	for _, id := range s.allowedIndexers {
		allowed[id] = struct{}{}
	}

	intersection := make([]string, 0, len(requested))
	for _, id := range requested {
		if _, ok := allowed[id]; ok {
			intersection = append(intersection, id)
		}
	}
	if len(intersection) == 0 {
		return []string{""}
	}
	return intersection
}

func (s *Service) recordHistory(ctx context.Context, searchID string, req Request, indexerCount, resultCount int, elapsed time.Duration) {
	if s.history == nil {
		return
	}

	entry := history.Entry{
		ID:           searchID,
		Query:        req.Query,
		ImdbID:       req.ImdbID,
		MediaType:    string(req.MediaType),
		IndexerCount: indexerCount,
		ResultCount:  resultCount,
		DurationMs:   elapsed.Milliseconds(),
		CreatedAt:    time.Now(),
	}

	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn().
			Err(err).
			Str("searchId", searchID).
			Msg("failed to record search history")
	}
}
