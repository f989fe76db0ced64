package jackett

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 90 * time.Second
	//nolint:gosec // header name constant, not a credential
	apiKeyHeader = "X-Api-Key"
)

// Client provides HTTP communication with a Jackett server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientConfig contains configuration for creating a new Jackett client.
type ClientConfig struct {
	URL     string
	APIKey  string
	Timeout int // seconds, caps the slowest allowed request
	Logger  zerolog.Logger
}

// NewClient creates a new Jackett HTTP client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("jackett URL is required")
	}

	baseURL := strings.TrimSuffix(cfg.URL, "/")

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger.With().
			Str("component", "jackett-client").
			Str("url", baseURL).
			Logger(),
	}, nil
}

// do executes an HTTP GET with the API key attached.
func (c *Client) do(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.logger.Debug().
		Str("path", path).
		Msg("executing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// GetIndexers fetches the list of configured indexers from Jackett.
func (c *Client) GetIndexers(ctx context.Context) ([]Indexer, error) {
	params := url.Values{}
	params.Set("configured", "true")

	resp, err := c.do(ctx, "/api/v2.0/indexers", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch indexers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("indexer list returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var indexers []Indexer
	if err := json.NewDecoder(resp.Body).Decode(&indexers); err != nil {
		return nil, fmt.Errorf("failed to decode indexer list: %w", err)
	}

	c.logger.Debug().
		Int("count", len(indexers)).
		Msg("fetched indexers")

	return indexers, nil
}

// Results executes a search against a single indexer's results endpoint and
// returns the HTTP status code and raw body. Classifying non-2xx statuses and
// parsing the body is left to the caller; transport failures return an error.
func (c *Client) Results(ctx context.Context, indexerID string, params url.Values) (int, []byte, error) {
	path := "/api/v2.0/indexers/" + url.PathEscape(indexerID) + "/results"

	resp, err := c.do(ctx, path, params)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// Ping verifies connectivity to Jackett by fetching the indexer list.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.GetIndexers(ctx); err != nil {
		return fmt.Errorf("jackett ping failed: %w", err)
	}
	return nil
}
