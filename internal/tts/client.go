// Package tts calls the Google Cloud Text-to-Speech REST API.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultBaseURL = "https://texttospeech.googleapis.com"
	LanguageCode   = "en-US"
	AudioEncoding  = "LINEAR16"
)

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

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type audioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceSelection `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize returns LINEAR16 audio for text spoken by the named voice.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	payload := synthesizeRequest{
		Input:       synthesisInput{Text: text},
		Voice:       voiceSelection{LanguageCode: LanguageCode, Name: voice},
		AudioConfig: audioConfig{AudioEncoding: AudioEncoding},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/text:synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var synthResp synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synthResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(synthResp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio content")
	}

	return audio, nil
}
