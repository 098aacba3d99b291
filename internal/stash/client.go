// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/models"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
// This prevents unbounded memory allocation when reading large error responses
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB)
// Returns the body content or a placeholder message if reading fails
// Uses io.LimitReader to prevent unbounded memory allocation
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	// If we hit the limit, indicate truncation
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// API is the read surface of the Stash GraphQL API consumed by the refresh
// pipeline. It is implemented by Client for direct use and by
// CircuitBreakerClient when breaker protection is enabled.
//
// All methods accept a context for cancellation and timeout support and are
// safe for concurrent use.
type API interface {
	Ping(ctx context.Context) error
	GetPerformers(ctx context.Context) ([]*models.Performer, error)
	GetScenes(ctx context.Context) ([]*models.Scene, error)
	GetTags(ctx context.Context) ([]*models.Tag, error)
}

// GraphQL documents for the read set. Field selections match the attributes
// the models carry; created_at and updated_at feed change detection.
const (
	querySystemStatus = `
	query SystemStatus {
		systemStatus {
			databaseSchema
			version
		}
	}`

	queryAllPerformers = `
	query AllPerformers {
		allPerformers {
			id
			name
			gender
			birthdate
			ethnicity
			country
			eye_color
			hair_color
			height_cm
			weight
			measurements
			favorite
			rating100
			scene_count
			o_counter
			tags {
				id
				name
			}
			created_at
			updated_at
		}
	}`

	queryFindScenes = `
	query FindScenes($filter: FindFilterType) {
		findScenes(filter: $filter) {
			count
			scenes {
				id
				title
				details
				url
				date
				rating100
				o_counter
				organized
				interactive
				files {
					duration
					size
					width
					height
				}
				studio {
					id
					name
				}
				tags {
					id
					name
				}
				performers {
					id
					name
					favorite
				}
				created_at
				updated_at
			}
		}
	}`

	queryAllTags = `
	query AllTags {
		allTags {
			id
			name
			scene_count
			performer_count
			updated_at
		}
	}`
)

// graphQLRequest is the POST body for every Stash API call.
type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphQLError is a single entry in the response envelope's errors list.
type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse is the Stash response envelope. Errors can ride alongside
// HTTP 200; any entry marks the request as failed.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// Client handles communication with the Stash GraphQL API.
//
// Every operation is a POST to {url}/graphql with a JSON query document and
// the ApiKey header when configured. The client includes built-in rate
// limiting on outgoing requests plus exponential backoff for HTTP 429
// responses.
//
// Features:
//   - Configurable request timeout (default 30s)
//   - Token bucket rate limiting on outgoing requests
//   - Automatic retry on rate limiting (up to 5 retries)
//   - Exponential backoff (1s, 2s, 4s, 8s, 16s delays) honoring Retry-After
//   - GraphQL error envelope validation
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
type Client struct {
	baseURL        string
	apiKey         string
	pageSize       int
	client         *http.Client
	limiter        *rate.Limiter
	logger         zerolog.Logger
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a new Stash API client with the provided configuration.
// Zero config values fall back to the documented defaults so a minimal
// config (URL only) still yields a working client.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewClient(cfg *config.StashConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:  cfg.URL,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		logger:         logger.With().Str("component", "stash").Logger(),
		maxRetries:     5,               // Allow up to 5 retries for rate limiting
		retryBaseDelay: 1 * time.Second, // Start with 1 second, doubles each retry
	}
}

// doRequestWithRateLimit performs a GraphQL POST with automatic rate limit handling.
// The token bucket limiter spaces out attempts; retried attempts pay for a
// token again. Implements exponential backoff for HTTP 429 responses.
func (c *Client) doRequestWithRateLimit(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Blocks until a token is available; returns early on cancellation
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("ApiKey", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		// Success - return response
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close() // Explicitly ignore error - will retry anyway

		// Last attempt - return error
		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		// Calculate exponential backoff delay: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Check for Retry-After header (RFC 6585)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			// Try parsing as seconds (integer)
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		// Use cancellable wait instead of time.Sleep
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// query executes a GraphQL document and decodes the data payload into result.
// GraphQL errors in the envelope are treated as request failures even when
// the HTTP status is 200.
func (c *Client) query(ctx context.Context, name, document string, variables map[string]interface{}, result interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: document, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", name, err)
	}

	resp, err := c.doRequestWithRateLimit(ctx, body)
	if err != nil {
		return fmt.Errorf("failed to make %s request: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", name, resp.StatusCode, string(errBody))
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%s request failed: %s", name, envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("%s response missing data", name)
	}

	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", name, err)
	}

	return nil
}

// Ping verifies connectivity to the Stash GraphQL API.
// The context is used for cancellation and timeout support.
func (c *Client) Ping(ctx context.Context) error {
	var status struct {
		SystemStatus struct {
			DatabaseSchema int    `json:"databaseSchema"`
			Version        string `json:"version"`
		} `json:"systemStatus"`
	}
	if err := c.query(ctx, "systemStatus", querySystemStatus, nil, &status); err != nil {
		return err
	}

	c.logger.Debug().
		Str("version", status.SystemStatus.Version).
		Int("database_schema", status.SystemStatus.DatabaseSchema).
		Msg("Stash reachable")
	return nil
}

// GetPerformers retrieves all performers from Stash. Derived attributes are
// not populated; callers run models.Performer.Derive with their reference
// time.
func (c *Client) GetPerformers(ctx context.Context) ([]*models.Performer, error) {
	var data struct {
		AllPerformers []*models.Performer `json:"allPerformers"`
	}
	if err := c.query(ctx, "allPerformers", queryAllPerformers, nil, &data); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(data.AllPerformers)).Msg("Fetched performers")
	return data.AllPerformers, nil
}

// GetScenes retrieves all scenes from Stash, paging through findScenes until
// the library is exhausted. Pages are fetched in id order so a fixed library
// always yields the same slice.
func (c *Client) GetScenes(ctx context.Context) ([]*models.Scene, error) {
	var scenes []*models.Scene

	for page := 1; ; page++ {
		var data struct {
			FindScenes struct {
				Count  int             `json:"count"`
				Scenes []*models.Scene `json:"scenes"`
			} `json:"findScenes"`
		}
		variables := map[string]interface{}{
			"filter": map[string]interface{}{
				"page":      page,
				"per_page":  c.pageSize,
				"sort":      "id",
				"direction": "ASC",
			},
		}
		if err := c.query(ctx, "findScenes", queryFindScenes, variables, &data); err != nil {
			return nil, err
		}

		scenes = append(scenes, data.FindScenes.Scenes...)

		// The last page comes back short, or exactly full when the total is
		// a multiple of the page size.
		if len(data.FindScenes.Scenes) < c.pageSize || len(scenes) >= data.FindScenes.Count {
			break
		}
	}

	c.logger.Debug().Int("count", len(scenes)).Msg("Fetched scenes")
	return scenes, nil
}

// GetTags retrieves all tags with their usage counts.
func (c *Client) GetTags(ctx context.Context) ([]*models.Tag, error) {
	var data struct {
		AllTags []*models.Tag `json:"allTags"`
	}
	if err := c.query(ctx, "allTags", queryAllTags, nil, &data); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(data.AllTags)).Msg("Fetched tags")
	return data.AllTags, nil
}
