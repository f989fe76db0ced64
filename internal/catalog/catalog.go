// Package catalog maintains a snapshot of the indexers available upstream.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jackbridge/jackbridge/internal/jackett"
)

// IndexerDescriptor describes one searchable indexer.
type IndexerDescriptor struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SupportsImdb     bool   `json:"supportsImdb"`
	SupportsCategory bool   `json:"supportsCategory"`
}

// Snapshot is an immutable view of the catalog at a point in time. Searches
// receive it by value so a concurrent refresh never mutates an in-flight plan.
type Snapshot struct {
	Indexers  []IndexerDescriptor `json:"indexers"`
	Version   int64               `json:"version"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

// Lookup returns the descriptor with the given id.
func (s Snapshot) Lookup(id string) (IndexerDescriptor, bool) {
	for _, idx := range s.Indexers {
		if idx.ID == id {
			return idx, true
		}
	}
	return IndexerDescriptor{}, false
}

// IndexerLister provides the upstream indexer list.
type IndexerLister interface {
	GetIndexers(ctx context.Context) ([]jackett.Indexer, error)
}

// Service fetches and caches the indexer catalog.
type Service struct {
	client IndexerLister
	logger zerolog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewService creates a new catalog service.
func NewService(client IndexerLister, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Refresh fetches the indexer list from upstream and replaces the snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	indexers, err := s.client.GetIndexers(ctx)
	if err != nil {
		return fmt.Errorf("catalog refresh failed: %w", err)
	}

	descriptors := make([]IndexerDescriptor, 0, len(indexers))
	for i := range indexers {
		idx := &indexers[i]
		if !idx.Configured {
			continue
		}
		descriptors = append(descriptors, IndexerDescriptor{
			ID:               idx.ID,
			Name:             idx.Name,
			SupportsImdb:     idx.SupportsImdb(),
			SupportsCategory: idx.SupportsCategory(),
		})
	}

	s.mu.Lock()
	s.snapshot = Snapshot{
		Indexers:  descriptors,
		Version:   s.snapshot.Version + 1,
		FetchedAt: time.Now(),
	}
	version := s.snapshot.Version
	s.mu.Unlock()

	s.logger.Info().
		Int("indexers", len(descriptors)).
		Int64("version", version).
		Msg("catalog refreshed")

	return nil
}

// Snapshot returns the current catalog snapshot. The returned value shares the
// descriptor slice with the service; callers must treat it as read-only.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Age returns how long ago the snapshot was fetched. Zero time means never.
func (s *Service) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.FetchedAt.IsZero() {
		return 0
	}
	return time.Since(s.snapshot.FetchedAt)
}
