// Package postgrest implements the word store against a hosted PostgREST
// endpoint (Supabase-style). The table, the record_sighting function, and the
// open row policies it expects are documented in schema.sql at the repo root.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wordsift/wordsift/pkg/words"
)

// Client talks to one words table through PostgREST. All access uses the
// anonymous key; the dataset is a single shared one with open row policies.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient returns a Client for the given endpoint URL and anonymous key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// UpsertBySighting calls the record_sighting function, which performs the
// insert-or-increment as one atomic statement server-side.
func (c *Client) UpsertBySighting(ctx context.Context, word string) (*words.Record, error) {
	body, err := json.Marshal(map[string]string{"input_word": word})
	if err != nil {
		return nil, err
	}
	recs, err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/record_sighting", "", body, nil)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &words.TransportError{Op: "upsert word " + word, Err: fmt.Errorf("empty response from record_sighting")}
	}
	return &recs[0], nil
}

// ListAll returns every record ordered by frequency descending.
func (c *Client) ListAll(ctx context.Context) ([]words.Record, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "frequency.desc")
	recs, err := c.do(ctx, http.MethodGet, "/rest/v1/words", query.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// UpdateDetails replaces the detail columns wholesale and stamps
// details_fetched_at. The PATCH returns the updated representation; an empty
// result set means the id does not exist.
func (c *Client) UpdateDetails(ctx context.Context, id string, d words.Details) (*words.Record, error) {
	payload := map[string]interface{}{
		"pronunciation":      d.Pronunciation,
		"pronunciations":     d.Pronunciations,
		"definitions":        d.Definitions,
		"examples":           d.Examples,
		"details_fetched_at": time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("id", "eq."+id)
	headers := map[string]string{"Prefer": "return=representation"}
	recs, err := c.do(ctx, http.MethodPatch, "/rest/v1/words", query.Encode(), body, headers)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, words.ErrNotFound
	}
	return &recs[0], nil
}

// GetByID returns the record or words.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*words.Record, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)
	query.Set("limit", "1")
	recs, err := c.do(ctx, http.MethodGet, "/rest/v1/words", query.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, words.ErrNotFound
	}
	return &recs[0], nil
}

// do issues one request and decodes the JSON result rows. PostgREST returns
// an array for table reads and set-returning functions alike.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, body []byte, headers map[string]string) ([]words.Record, error) {
	op := fmt.Sprintf("%s %s", method, path)

	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &words.TransportError{Op: op, Err: err}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &words.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &words.TransportError{Op: op, Status: resp.StatusCode}
	}

	var recs []words.Record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		return nil, &words.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return recs, nil
}
