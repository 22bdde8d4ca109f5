package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/pkg/logging"
)

// Inserter persists one lead record per accepted submission.
type Inserter interface {
	InsertLead(ctx context.Context, rec leads.Record) error
}

// StatusError reports a non-success response from the storage endpoint. The
// upstream status is surfaced to the client in the intake error body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("storage: insert failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("storage: insert failed with status %d: %s", e.StatusCode, body)
}

// SupabaseClient inserts lead records through the Supabase REST API.
type SupabaseClient struct {
	baseURL    string
	serviceKey string
	table      string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewSupabaseClient builds a client for the given project URL and service
// role key.
func NewSupabaseClient(baseURL, serviceKey, table string, timeout time.Duration, logger *logging.Logger) *SupabaseClient {
	if table == "" {
		table = "leads"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SupabaseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		table:      table,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ Inserter = (*SupabaseClient)(nil)

// InsertLead performs a single bulk insert of a one-element array. The REST
// API expects an array body and is asked to return no representation.
func (c *SupabaseClient) InsertLead(ctx context.Context, rec leads.Record) error {
	body, err := json.Marshal([]leads.Record{rec})
	if err != nil {
		return fmt.Errorf("storage: marshal record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("storage: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: insert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("supabase insert error", "status", resp.StatusCode, "body", string(respBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Info("lead saved to supabase", "table", c.table)
	return nil
}
