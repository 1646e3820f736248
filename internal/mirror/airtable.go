package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const airtableBaseURL = "https://api.airtable.com/v0"

// AirtableClient mirrors records to an Airtable base over REST.
// Constructed once and injected into the dispatcher.
type AirtableClient struct {
	apiKey  string
	baseID  string
	table   string
	baseURL string
	http    *http.Client
}

// NewAirtableClient creates a mirror client for the given base and table.
func NewAirtableClient(apiKey, baseID, table string) *AirtableClient {
	return &AirtableClient{
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		baseURL: airtableBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateRecord creates a record via POST /v0/{base}/{table}.
func (c *AirtableClient) CreateRecord(ctx context.Context, fields Fields) (string, error) {
	payload := map[string]interface{}{
		"records": []map[string]interface{}{{"fields": fields}},
	}

	var result struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	if err := c.do(ctx, http.MethodPost, c.recordsURL(), payload, &result); err != nil {
		return "", err
	}
	if len(result.Records) == 0 {
		return "", fmt.Errorf("mirror returned no records")
	}
	return result.Records[0].ID, nil
}

// UpdateRecord patches a record via PATCH /v0/{base}/{table}/{id}.
func (c *AirtableClient) UpdateRecord(ctx context.Context, recordID string, fields Fields) error {
	payload := map[string]interface{}{"fields": fields}
	return c.do(ctx, http.MethodPatch, c.recordsURL()+"/"+recordID, payload, nil)
}

func (c *AirtableClient) recordsURL() string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, c.table)
}

func (c *AirtableClient) do(ctx context.Context, method, url string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mirror payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mirror request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mirror returned status %d: %s", resp.StatusCode, msg)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode mirror response: %w", err)
		}
	}
	return nil
}
