// Package transcriber talks to the AssemblyAI speech-to-text REST API.
package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"lifeos-backend/internal/domain"
)

const DefaultBaseURL = "https://api.assemblyai.com"

// LanguageCode is sent with every job.
const LanguageCode = "en"

type Client struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  httpClient,
	}
}

type submitRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code"`
}

type transcriptResponse struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Text          string   `json:"text"`
	Confidence    *float64 `json:"confidence"`
	AudioDuration *float64 `json:"audio_duration"`
	Error         string   `json:"error"`
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

func (r transcriptResponse) job() *domain.TranscriptionJob {
	return &domain.TranscriptionJob{
		ID:            r.ID,
		Status:        domain.JobStatus(r.Status),
		Text:          r.Text,
		Confidence:    r.Confidence,
		AudioDuration: r.AudioDuration,
		Error:         r.Error,
	}
}

// Submit queues a transcription job for the audio at audioURL.
func (c *Client) Submit(ctx context.Context, audioURL string) (*domain.TranscriptionJob, error) {
	body, err := json.Marshal(submitRequest{AudioURL: audioURL, LanguageCode: LanguageCode})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp transcriptResponse
	if err := c.do(ctx, http.MethodPost, "/v2/transcript", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("no transcript id returned")
	}

	return resp.job(), nil
}

// Fetch returns the current state of a job.
func (c *Client) Fetch(ctx context.Context, id string) (*domain.TranscriptionJob, error) {
	var resp transcriptResponse
	if err := c.do(ctx, http.MethodGet, "/v2/transcript/"+id, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.job(), nil
}

// Upload stores raw audio with the vendor and returns a URL jobs can read it from.
func (c *Client) Upload(ctx context.Context, audio io.Reader) (string, error) {
	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/v2/upload", "application/octet-stream", audio, &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("no upload url returned")
	}
	return resp.UploadURL, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("authorization", c.APIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
