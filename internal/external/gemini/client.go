// Package gemini implements the reasoning agent against the Gemini
// generateContent REST API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/pkg/config"
	"github.com/verdictlab/verdict/pkg/httputil"
	"github.com/verdictlab/verdict/pkg/logger"
)

// Client talks to one Gemini model. Safe for sequential use by the
// orchestrator; pacing is the caller's concern.
type Client struct {
	http    *httputil.Client
	baseURL string
	model   string
	apiKey  string
	logger  *logger.Logger
}

// New builds a client from the provider config.
func New(cfg config.GeminiConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		// The orchestrator owns retries; one HTTP attempt per call.
		http:    httputil.NewWithTimeout(log, timeout).DisableRetry(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		logger:  log,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one role invocation and returns the report text. A
// response cut off at the token limit returns the partial text together
// with ErrTruncated so the retry policy can decide.
func (c *Client) Generate(ctx context.Context, prompt string, role contracts.Role, contextText string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt + "\n\n" + contextText}}}},
	}

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, url, body)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("gemini %s: %w", c.model, contracts.ErrRateLimited)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		if parsed.Error.Code == http.StatusTooManyRequests || parsed.Error.Status == "RESOURCE_EXHAUSTED" {
			return "", fmt.Errorf("gemini %s: %w", c.model, contracts.ErrRateLimited)
		}
		return "", fmt.Errorf("gemini API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	cand := parsed.Candidates[0]
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}

	c.logger.WithFields(map[string]interface{}{
		"role":          string(role),
		"model":         c.model,
		"finish_reason": cand.FinishReason,
		"chars":         text.Len(),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Debug("Gemini generation completed")

	if cand.FinishReason == "MAX_TOKENS" {
		return text.String(), contracts.ErrTruncated
	}
	return text.String(), nil
}
