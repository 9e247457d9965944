// Package analysis sends a window of sleep sessions to a hosted language
// model and splits the reply into headed sections.
package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/balkashynov/slumber/internal/config"
	"github.com/balkashynov/slumber/internal/sleep"
)

const apiVersion = "2023-06-01"

var (
	// ErrNoAPIKey means no credential is configured
	ErrNoAPIKey = errors.New("no API key configured. Set analysis.api_key in the config file or " + config.APIKeyEnv)
	// ErrNoData means the window holds no finished nights
	ErrNoData = errors.New("no finished nights in this window")
)

// Client calls an Anthropic-style messages endpoint
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

// Result is the reply text and its sections
type Result struct {
	Text     string
	Sections []Section
	Model    string
}

// NewClient creates a client for the configured messages endpoint
func NewClient(cfg config.AnalysisConfig) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the nights of sum and returns the parsed reply
func (c *Client) Analyze(ctx context.Context, sum sleep.Summary) (*Result, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if !sum.HasData {
		return nil, ErrNoData
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    SystemInstruction,
		Messages:  []message{{Role: "user", Content: BuildPrompt(sum)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", c.endpoint).Msg("analysis request failed")
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	log.Info().
		Int("status", resp.StatusCode).
		Int("nights", sum.Nights).
		Dur("took", time.Since(start)).
		Msg("analysis response")

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, data)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, errors.New("analysis returned an empty reply")
	}

	return &Result{
		Text:     text.String(),
		Sections: ParseSections(text.String()),
		Model:    parsed.Model,
	}, nil
}

func statusError(status int, data []byte) error {
	var e errorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error.Message != "" {
		return fmt.Errorf("analysis failed (%d %s): %s", status, e.Error.Type, e.Error.Message)
	}
	return fmt.Errorf("analysis failed with status %d", status)
}
