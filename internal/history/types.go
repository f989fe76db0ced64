// Package history keeps an audit log of executed searches. It records what
// was searched and how it went, never the result payloads themselves.
package history

import "time"

// Entry is one recorded search.
type Entry struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	ImdbID       string    `json:"imdbId,omitempty"`
	MediaType    string    `json:"mediaType"`
	IndexerCount int       `json:"indexerCount"`
	ResultCount  int       `json:"resultCount"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}
