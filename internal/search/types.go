// Package search turns one logical search into per-indexer queries, normalizes
// the raw upstream results, and aggregates them into a single ranked list.
package search

import (
	"net/url"
	"time"
)

// MediaType hints what kind of content the caller is looking for.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeUnknown MediaType = "unknown"
)

// Request is a logical search request. At least one of Query or ImdbID must
// be non-blank.
type Request struct {
	Query     string    `json:"query"`
	ImdbID    string    `json:"imdbId"`
	MediaType MediaType `json:"mediaType"`
	// Indexers restricts the search to the listed indexer ids. Empty means
	// every indexer in the catalog.
	Indexers []string `json:"indexers"`
}

// PlannedQuery is one indexer-specific query produced by the query builder.
type PlannedQuery struct {
	IndexerID   string
	IndexerName string
	Params      url.Values
}

// ResponseState classifies the outcome of a single indexer call.
type ResponseState string

const (
	StateOK       ResponseState = "ok"
	StateTimedOut ResponseState = "timed_out"
	StateError    ResponseState = "error"
)

// RawResponse is the unparsed outcome of one indexer call. It is consumed by
// the normalizer and discarded.
type RawResponse struct {
	IndexerID   string
	IndexerName string
	State       ResponseState
	StatusCode  int
	Elapsed     time.Duration
	Body        []byte
	Err         error
}

// TorrentRecord is the canonical, normalized search result unit. Title and
// DownloadURL are always non-empty; items that cannot satisfy that are
// dropped during normalization.
type TorrentRecord struct {
	Title       string     `json:"title"`
	IndexerID   string     `json:"indexerId"`
	IndexerName string     `json:"indexerName"`
	SizeBytes   uint64     `json:"sizeBytes"`
	Seeders     uint       `json:"seeders"`
	Leechers    uint       `json:"leechers"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	DownloadURL string     `json:"downloadUrl"`
	PageURL     string     `json:"pageUrl,omitempty"`
	Category    string     `json:"category,omitempty"`
}

// IndexerStatus reports how a single indexer's call went.
type IndexerStatus struct {
	State     ResponseState `json:"state"`
	Error     string        `json:"error,omitempty"`
	ElapsedMs int64         `json:"elapsedMs"`
}

// Result is the aggregated outcome of one search. IndexerStatuses holds one
// entry per indexer in the query plan, regardless of outcome.
type Result struct {
	Records         []TorrentRecord          `json:"records"`
	IndexerStatuses map[string]IndexerStatus `json:"indexerStatuses"`
}
