package mediastore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultHTTPTimeout = 30 * time.Second

type httpConfig struct {
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// httpStore forwards uploads to a remote media service that ingests data
// URLs and answers with the stored media id and URL.
type httpStore struct {
	client *resty.Client
}

type ingestSource struct {
	Type    string `json:"type"`
	DataURL string `json:"data_url"`
}

type ingestRequest struct {
	Source    ingestSource `json:"source"`
	MediaType string       `json:"media_type,omitempty"`
	UserID    string       `json:"user_id,omitempty"`
}

type ingestResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	PresignedURL string `json:"presigned_url"`
}

func init() {
	Register("http", createHTTPStore)
}

func createHTTPStore(args interface{}) (Store, error) {
	config := &httpConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	endpoint := strings.TrimSuffix(strings.TrimSpace(config.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("http media store endpoint is required")
	}
	timeout := defaultHTTPTimeout
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if config.APIKey != "" {
		client.SetAuthToken(config.APIKey)
	}
	return &httpStore{client: client}, nil
}

func (s *httpStore) Type() string {
	return "http"
}

func (s *httpStore) Put(ctx context.Context, obj Object) (*Stored, error) {
	var result ingestResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(ingestRequest{
			Source:    ingestSource{Type: "data_url", DataURL: obj.DataURL},
			MediaType: string(obj.MediaType),
			UserID:    obj.UserID,
		}).
		SetResult(&result).
		Post("/v1/media")
	if err != nil {
		return nil, fmt.Errorf("media ingest request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("media ingest returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	url := result.URL
	if url == "" {
		url = result.PresignedURL
	}
	if result.ID == "" || url == "" {
		return nil, fmt.Errorf("media ingest response missing id or url")
	}
	return &Stored{URL: url, ID: result.ID}, nil
}
