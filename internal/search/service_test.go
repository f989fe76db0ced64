package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jackbridge/jackbridge/internal/catalog"
	"github.com/jackbridge/jackbridge/internal/history"
)

type staticCatalog struct {
	snap catalog.Snapshot
}

func (s *staticCatalog) Snapshot() catalog.Snapshot { return s.snap }

type recordingHistory struct {
	entries []history.Entry
}

func (r *recordingHistory) Record(ctx context.Context, entry history.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTestService(caller ResultsCaller, snap catalog.Snapshot) *Service {
	d := NewDispatcher(caller, 200*time.Millisecond, zerolog.Nop())
	return NewService(&staticCatalog{snap: snap}, d, zerolog.Nop())
}

func TestSearch_PartialFailure(t *testing.T) {
	caller := &fakeCaller{behaviors: map[string]func(ctx context.Context) (int, []byte, error){
		"alpha": respondOK(`{"Results":[
			{"Title": "Dune 1080p", "Link": "http://a/1.torrent", "Seeders": 12},
			{"Title": "Dune 2160p", "Link": "http://a/2.torrent", "Seeders": 3}
		]}`),
		"gamma": respondSlow(5 * time.Second),
	}}
	svc := newTestService(caller, testSnapshot())

	// Filter to alpha and gamma; beta must not appear anywhere in the result.
	result, err := svc.Search(context.Background(), Request{
		Query:    "dune",
		Indexers: []string{"alpha", "gamma"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 2 {
		t.Errorf("expected 2 records from the healthy indexer, got %d", len(result.Records))
	}
	if len(result.IndexerStatuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(result.IndexerStatuses))
	}
	if _, ok := result.IndexerStatuses["beta"]; ok {
		t.Error("beta was filtered out and must not have a status entry")
	}
	if got := result.IndexerStatuses["alpha"].State; got != StateOK {
		t.Errorf("alpha state = %q, want ok", got)
	}
	if got := result.IndexerStatuses["gamma"].State; got != StateTimedOut {
		t.Errorf("gamma state = %q, want timed_out", got)
	}
}

func TestSearch_AllIndexersFailingStillSucceeds(t *testing.T) {
	caller := &fakeCaller{behaviors: map[string]func(ctx context.Context) (int, []byte, error){
		"alpha": respondStatus(500),
		"beta":  respondStatus(502),
		"gamma": func(ctx context.Context) (int, []byte, error) {
			return 0, nil, errors.New("connection refused")
		},
	}}
	svc := newTestService(caller, testSnapshot())

	result, err := svc.Search(context.Background(), Request{Query: "dune"})
	if err != nil {
		t.Fatalf("total upstream failure must not fail the search, got %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("expected no records, got %d", len(result.Records))
	}
	for id, status := range result.IndexerStatuses {
		if status.State == StateOK {
			t.Errorf("indexer %s reported ok, want a failure state", id)
		}
	}
}

func TestSearch_RequestErrorsPropagate(t *testing.T) {
	svc := newTestService(&fakeCaller{}, testSnapshot())

	_, err := svc.Search(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}

	_, err = svc.Search(context.Background(), Request{Query: "dune", Indexers: []string{"nope"}})
	if !errors.Is(err, ErrNoMatchingIndexers) {
		t.Errorf("expected ErrNoMatchingIndexers, got %v", err)
	}
}

func TestSearch_AllowListIntersectsRequestFilter(t *testing.T) {
	caller := &fakeCaller{behaviors: map[string]func(ctx context.Context) (int, []byte, error){
		"alpha": respondOK(`{"Results":[]}`),
		"beta":  respondOK(`{"Results":[]}`),
	}}
	svc := newTestService(caller, testSnapshot())
	svc.SetAllowedIndexers([]string{"alpha"})

	// No request filter: the allow-list alone applies.
	result, err := svc.Search(context.Background(), Request{Query: "dune"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.IndexerStatuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(result.IndexerStatuses))
	}
	if _, ok := result.IndexerStatuses["alpha"]; !ok {
		t.Error("expected alpha in statuses")
	}

	// Request filter disjoint from the allow-list: no matching indexers.
	_, err = svc.Search(context.Background(), Request{Query: "dune", Indexers: []string{"beta"}})
	if !errors.Is(err, ErrNoMatchingIndexers) {
		t.Errorf("expected ErrNoMatchingIndexers, got %v", err)
	}
}

func TestSearch_RecordsHistory(t *testing.T) {
	caller := &fakeCaller{behaviors: map[string]func(ctx context.Context) (int, []byte, error){
		"alpha": respondOK(`{"Results":[{"Title": "Dune", "Link": "http://a/1.torrent"}]}`),
	}}
	svc := newTestService(caller, testSnapshot())

	recorder := &recordingHistory{}
	svc.SetHistoryRecorder(recorder)

	_, err := svc.Search(context.Background(), Request{Query: "dune", Indexers: []string{"alpha"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Query != "dune" || entry.IndexerCount != 1 || entry.ResultCount != 1 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.ID == "" {
		t.Error("expected a search id on the entry")
	}
}

func TestListIndexers(t *testing.T) {
	svc := newTestService(&fakeCaller{}, testSnapshot())
	indexers := svc.ListIndexers()
	if len(indexers) != 3 {
		t.Errorf("expected 3 indexers, got %d", len(indexers))
	}
}
