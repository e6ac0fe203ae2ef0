package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClassifyRequest represents a request to the inference service
type ClassifyRequest struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
}

// ClassifyResponse represents the response from the inference service.
// Probabilities are keyed by label name.
type ClassifyResponse struct {
	Success       bool               `json:"success"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
	ModelVersion  string             `json:"model_version"`
	RequestID     string             `json:"request_id,omitempty"`
}

// EmbedRequest asks the inference service for sentence embeddings
type EmbedRequest struct {
	Texts []string `json:"texts"`
}

// EmbedResponse carries one vector per input text
type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Model      string      `json:"model"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version"`
}

// MLClient is an HTTP client for the IndoBERT inference service
type MLClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMLClient creates a new inference service client
func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	return &MLClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify sends a single text for classification
func (c *MLClient) Classify(ctx context.Context, text, requestID string) (*ClassifyResponse, error) {
	var result ClassifyResponse
	if err := c.postJSON(ctx, "/classify", ClassifyRequest{Text: text, RequestID: requestID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Embed returns sentence embeddings for texts
func (c *MLClient) Embed(ctx context.Context, texts []string) (*EmbedResponse, error) {
	var result EmbedResponse
	if err := c.postJSON(ctx, "/embed", EmbedRequest{Texts: texts}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MLClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return fmt.Errorf("inference service returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health checks the inference service health
func (c *MLClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ready checks if the inference service has its model loaded
func (c *MLClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service not ready: status %d", resp.StatusCode)
	}

	return nil
}
