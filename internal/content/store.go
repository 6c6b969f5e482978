package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Store runs a GROQ query and decodes its result into out
type Store interface {
	Query(ctx context.Context, query string, params map[string]any, out any) error
}

// ErrNotConfigured is returned by NopStore
var ErrNotConfigured = errors.New("content store is not configured")

// NopStore stands in when no CMS project is configured; every query fails
// and the service degrades to empty results.
type NopStore struct{}

func (NopStore) Query(ctx context.Context, query string, params map[string]any, out any) error {
	return ErrNotConfigured
}

// SanityConfig points a SanityStore at a project dataset
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration
	Retries    int
	// BaseURL replaces the derived https://<project>.api.sanity.io host
	BaseURL string
}

// SanityStore queries the Sanity HTTP query API
type SanityStore struct {
	client   *resty.Client
	endpoint string
}

type queryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

func NewSanityStore(cfg SanityConfig) (*SanityStore, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, errors.New("sanity project id is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2023-05-03"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	base := cfg.BaseURL
	if base == "" {
		host := "api"
		if cfg.UseCDN {
			host = "apicdn"
		}
		base = fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host)
	}
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s",
		strings.TrimRight(base, "/"), strings.TrimPrefix(cfg.APIVersion, "v"), cfg.Dataset)

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &SanityStore{client: client, endpoint: endpoint}, nil
}

// Endpoint is the query URL requests are sent to
func (s *SanityStore) Endpoint() string {
	return s.endpoint
}

func (s *SanityStore) Query(ctx context.Context, query string, params map[string]any, out any) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(queryRequest{Query: query, Params: params}).
		Post(s.endpoint)
	if err != nil {
		return fmt.Errorf("failed to query content store: %w", err)
	}

	var body queryResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil && !resp.IsError() {
		return fmt.Errorf("failed to decode content store response: %w", err)
	}
	if body.Error != nil {
		return fmt.Errorf("content store returned %d: %s: %s", resp.StatusCode(), body.Error.Type, body.Error.Description)
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status code %d from content store", resp.StatusCode())
	}
	if len(body.Result) == 0 {
		return errors.New("content store response has no result")
	}

	if err := json.Unmarshal(body.Result, out); err != nil {
		return fmt.Errorf("failed to decode content store result: %w", err)
	}
	return nil
}
