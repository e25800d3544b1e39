// Package algolia is a minimal client for the Algolia REST search protocol:
// multi-query search plus object upsert. Only the endpoints the journal
// backend uses are implemented.
package algolia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
	"github.com/whispers-app/journal-api/internal/metrics"
)

// Client talks to a hosted Algolia-style search index.
type Client struct {
	appID     string
	writeKey  string
	searchKey string
	indexName string
	queryURL  string
	writeBase string
	http      *http.Client
	logger    *zap.Logger
}

// Config holds search index connection settings.
type Config struct {
	AppID     string
	APIKey    string // admin key, used for writes
	SearchKey string // search-only key, used for queries; falls back to APIKey
	IndexName string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// New creates a search index client.
func New(cfg *Config) *Client {
	searchKey := cfg.SearchKey
	if searchKey == "" {
		searchKey = cfg.APIKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		appID:     cfg.AppID,
		writeKey:  cfg.APIKey,
		searchKey: searchKey,
		indexName: cfg.IndexName,
		queryURL:  fmt.Sprintf("https://%s-dsn.algolia.net/1/indexes/*/queries", cfg.AppID),
		writeBase: fmt.Sprintf("https://%s.algolia.net/1/indexes", cfg.AppID),
		http:      &http.Client{Timeout: timeout},
		logger:    cfg.Logger,
	}
}

// queryRequest is one entry of the multi-query payload.
type queryRequest struct {
	IndexName   string `json:"indexName"`
	Query       string `json:"query"`
	HitsPerPage int    `json:"hitsPerPage"`
	Filters     string `json:"filters"`
}

type queryResponse struct {
	Results []struct {
		Hits []json.RawMessage `json:"hits"`
	} `json:"results"`
}

// Query runs a single term query and returns ranked hits in index order.
// The filter string is passed through literally, including when empty.
func (c *Client) Query(ctx context.Context, term, filters string, hitsPerPage int) ([]domain.Hit, error) {
	raw, err := c.doQuery(ctx, term, filters, hitsPerPage)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.Hit, 0, len(raw))
	for _, r := range raw {
		var h domain.Hit
		if err := json.Unmarshal(r, &h); err != nil {
			// Skip malformed hits rather than failing the query.
			c.logger.Warn("Skipping malformed index hit", zap.Error(err))
			continue
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// QueryEntries runs a query returning full entry documents (including text).
func (c *Client) QueryEntries(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error) {
	raw, err := c.doQuery(ctx, query, filters, hitsPerPage)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(raw))
	for _, r := range raw {
		var e domain.Entry
		if err := json.Unmarshal(r, &e); err != nil {
			c.logger.Warn("Skipping malformed index entry", zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SaveEntry creates or replaces an entry document by its object id.
func (c *Client) SaveEntry(ctx context.Context, entry domain.Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s",
		c.writeBase, url.PathEscape(c.indexName), url.PathEscape(entry.ObjectID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build save request: %w", err)
	}
	c.setHeaders(req, c.writeKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("save entry: %w: %w", err, domain.ErrIndexUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IndexRequestsTotal.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("save entry: status %d: %s: %w",
			resp.StatusCode, readBodySnippet(resp.Body), domain.ErrIndexUnavailable)
	}

	metrics.IndexRequestsTotal.WithLabelValues("save", "success").Inc()
	return nil
}

func (c *Client) doQuery(ctx context.Context, query, filters string, hitsPerPage int) ([]json.RawMessage, error) {
	payload := struct {
		Requests []queryRequest `json:"requests"`
	}{
		Requests: []queryRequest{{
			IndexName:   c.indexName,
			Query:       query,
			HitsPerPage: hitsPerPage,
			Filters:     filters,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	c.setHeaders(req, c.searchKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues("query", "error").Inc()
		return nil, fmt.Errorf("query index: %w: %w", err, domain.ErrIndexUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.IndexRequestsTotal.WithLabelValues("query", "error").Inc()
		return nil, fmt.Errorf("query index: status %d: %s: %w",
			resp.StatusCode, readBodySnippet(resp.Body), domain.ErrIndexUnavailable)
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.IndexRequestsTotal.WithLabelValues("query", "error").Inc()
		return nil, fmt.Errorf("decode query response: %w: %w", err, domain.ErrIndexUnavailable)
	}

	metrics.IndexRequestsTotal.WithLabelValues("query", "success").Inc()

	if len(parsed.Results) == 0 {
		return nil, nil
	}
	return parsed.Results[0].Hits, nil
}

func (c *Client) setHeaders(req *http.Request, key string) {
	req.Header.Set("X-Algolia-API-Key", key)
	req.Header.Set("X-Algolia-Application-Id", c.appID)
	req.Header.Set("Content-Type", "application/json")
}

func readBodySnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 256))
	return string(data)
}
