package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ResultsCaller executes a raw search call against one indexer.
type ResultsCaller interface {
	Results(ctx context.Context, indexerID string, params url.Values) (int, []byte, error)
}

// Dispatcher fans a query plan out to the upstream aggregator, one concurrent
// call per planned indexer, each independently bounded by the configured
// timeout. It always returns exactly one RawResponse per planned query.
type Dispatcher struct {
	client  ResultsCaller
	timeout time.Duration
	logger  zerolog.Logger
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(client ResultsCaller, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		timeout: timeout,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch executes every planned query concurrently and waits for all of
// them to complete or time out. No call's failure aborts the others; each
// goroutine writes only into its own response slot.
func (d *Dispatcher) Dispatch(ctx context.Context, plan []PlannedQuery) []RawResponse {
	responses := make([]RawResponse, len(plan))

	var wg sync.WaitGroup
	for i, pq := range plan {
		wg.Add(1)
		go func(slot int, pq PlannedQuery) {
			defer wg.Done()
			responses[slot] = d.call(ctx, pq)
		}(i, pq)
	}
	wg.Wait()

	return responses
}

// call executes a single indexer query and classifies its outcome.
func (d *Dispatcher) call(ctx context.Context, pq PlannedQuery) RawResponse {
	resp := RawResponse{
		IndexerID:   pq.IndexerID,
		IndexerName: pq.IndexerName,
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	statusCode, body, err := d.client.Results(callCtx, pq.IndexerID, pq.Params)
	resp.Elapsed = time.Since(start)
	resp.StatusCode = statusCode

	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		resp.State = StateTimedOut
		resp.Err = fmt.Errorf("timed out after %s", d.timeout)
		d.logger.Warn().
			Str("indexer", pq.IndexerID).
			Dur("elapsed", resp.Elapsed).
			Msg("indexer call timed out")
	case err != nil:
		resp.State = StateError
		resp.Err = err
		d.logger.Warn().
			Err(err).
			Str("indexer", pq.IndexerID).
			Dur("elapsed", resp.Elapsed).
			Msg("indexer call failed")
	case statusCode < 200 || statusCode >= 300:
		resp.State = StateError
		resp.Err = fmt.Errorf("upstream returned status %d", statusCode)
		d.logger.Warn().
			Str("indexer", pq.IndexerID).
			Int("status", statusCode).
			Msg("indexer call returned error status")
	default:
		resp.State = StateOK
		resp.Body = body
		d.logger.Debug().
			Str("indexer", pq.IndexerID).
			Int("bytes", len(body)).
			Dur("elapsed", resp.Elapsed).
			Msg("indexer call completed")
	}

	return resp
}
