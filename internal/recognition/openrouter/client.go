// Package openrouter is a minimal client for OpenRouter-compatible chat
// completion APIs, covering only the multimodal completion call the
// recognition service needs.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cashbook/internal"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	BaseURL  string
	Referer  string
	AppTitle string
	Timeout  time.Duration
}

type Client struct {
	baseURL    string
	referer    string
	appTitle   string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		referer:    cfg.Referer,
		appTitle:   cfg.AppTitle,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CompleteWithImage sends one text-plus-image chat completion and returns
// the raw model output. The image is base64-encoded jpeg data, with or
// without a data-URL prefix.
func (c *Client) CompleteWithImage(ctx context.Context, apiKey, model, prompt, imageBase64 string) (string, error) {
	reqBody := completionRequest{
		Model: model,
		Messages: []message{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL(imageBase64)}},
				},
			},
		},
		Temperature: 0.3,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", internal.NewInternalError("failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", internal.NewInternalError("failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.appTitle != "" {
		req.Header.Set("X-Title", c.appTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", internal.NewUpstreamError("recognition provider unreachable", internal.ErrCodeUpstreamFailed).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", internal.NewUpstreamError("failed to read recognition provider response", internal.ErrCodeUpstreamFailed).WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		var parsed completionResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", internal.NewUpstreamError(
			fmt.Sprintf("recognition provider returned %s: %s", resp.Status, msg),
			internal.ErrCodeUpstreamFailed)
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", internal.NewUpstreamError("invalid recognition provider response", internal.ErrCodeUpstreamFailed).WithCause(err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", internal.NewUpstreamError("recognition provider returned no content", internal.ErrCodeEmptyCompletion)
	}
	return parsed.Choices[0].Message.Content, nil
}

func dataURL(imageBase64 string) string {
	if strings.HasPrefix(imageBase64, "data:") {
		return imageBase64
	}
	return "data:image/jpeg;base64," + imageBase64
}
