package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	restPath       = "/rest/v1/"
)

// Client implements domain.MovieTable against a PostgREST endpoint
// (the REST interface Supabase exposes for its tables).
type Client struct {
	baseURL    string
	key        string
	table      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.MovieTable = (*Client)(nil)

// NewClient creates a new REST table client. A zero timeout uses the default.
func NewClient(baseURL, key, table string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if table == "" {
		table = "movies"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		table:   table,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// StatusError is returned for non-2xx responses other than auth failures
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("unexpected status code: %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Message)
}

// doRequest performs one authenticated request against the table endpoint.
// There is no retry: a failed call is reported to the caller as-is.
func (c *Client) doRequest(ctx context.Context, method string, query url.Values, body any, prefer string) ([]byte, http.Header, error) {
	reqURL := c.baseURL + restPath + url.PathEscape(c.table)
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	c.logger.Debug("table request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		c.logger.Error("table request failed", "method", method, "error", err)
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil, domain.ErrAuthFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil {
			statusErr.Code = apiErr.Code
			statusErr.Message = apiErr.Message
		}
		c.logger.Error("table request error", "method", method, "status", resp.StatusCode, "body", string(respBody))
		return nil, nil, statusErr
	}

	return respBody, resp.Header, nil
}

// Select returns every row of the table in the requested order
func (c *Client) Select(ctx context.Context, opts domain.SelectOptions) ([]domain.Movie, error) {
	query := url.Values{}
	query.Set("select", "*")
	if opts.OrderBy != "" {
		dir := "desc"
		if opts.Ascending {
			dir = "asc"
		}
		query.Set("order", opts.OrderBy+"."+dir)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	body, _, err := c.doRequest(ctx, http.MethodGet, query, nil, "")
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(body)
	if err != nil {
		return nil, err
	}
	return MapMovies(rows, c.logger), nil
}

// Count returns the exact row count using a HEAD request
func (c *Client) Count(ctx context.Context) (int, error) {
	query := url.Values{}
	query.Set("select", "*")

	_, header, err := c.doRequest(ctx, http.MethodHead, query, nil, "count=exact")
	if err != nil {
		return 0, err
	}
	return parseContentRange(header.Get("Content-Range"))
}

// Insert creates a row and returns it as stored by the server
func (c *Client) Insert(ctx context.Context, movie domain.MovieInput) (domain.Movie, error) {
	body, _, err := c.doRequest(ctx, http.MethodPost, nil, MapBody(movie), "return=representation")
	if err != nil {
		return domain.Movie{}, err
	}
	return c.single(body)
}

// Update replaces the row keyed by movie.ID
func (c *Client) Update(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	query := url.Values{}
	query.Set("id", "eq."+movie.ID)

	body, _, err := c.doRequest(ctx, http.MethodPatch, query, MapBody(movie.Input()), "return=representation")
	if err != nil {
		return domain.Movie{}, err
	}
	return c.single(body)
}

// Delete removes the row keyed by id
func (c *Client) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	_, _, err := c.doRequest(ctx, http.MethodDelete, query, nil, "")
	return err
}

// single decodes a representation response that must hold exactly one row
func (c *Client) single(body []byte) (domain.Movie, error) {
	rows, err := decodeRows(body)
	if err != nil {
		return domain.Movie{}, err
	}
	if len(rows) == 0 {
		return domain.Movie{}, domain.ErrMovieNotFound
	}
	return MapMovie(rows[0], c.logger), nil
}

func decodeRows(body []byte) ([]MovieRow, error) {
	var rows []MovieRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return rows, nil
}

// parseContentRange extracts the total from "0-24/3573" or "*/0"
func parseContentRange(value string) (int, error) {
	_, total, ok := strings.Cut(value, "/")
	if !ok || total == "*" {
		return 0, errors.New("response has no row count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(total))
	if err != nil {
		return 0, fmt.Errorf("invalid content range %q: %w", value, err)
	}
	return n, nil
}
