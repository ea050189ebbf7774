// ABOUTME: AI generation collaborator speaking the OpenAI-compatible chat completions API
// ABOUTME: Tries each configured API key in turn and returns a bare HTML document

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/interfaces"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"

	maxPromptLen = 8000
	maxBodyBytes = 8 << 20
)

const systemInstruction = `You are an expert Frontend Engineer.
Your task is to generate a complete, single-file HTML document based on the user's description.
- Use inline CSS or a CDN like Tailwind (via <script src="https://cdn.tailwindcss.com"></script>) for styling.
- Make it look modern, responsive, and professional.
- Return ONLY the raw HTML code. Do not wrap it in markdown code blocks.
- Do not include explanations.
- Ensure the HTML is valid and runnable in an iframe.
- Write the visible content of the page in the language of the user's description.`

// Config configures the generation provider
type Config struct {
	BaseURL     string
	APIKeys     []string
	Model       string
	Temperature float64
}

// Client implements interfaces.Generator
type Client struct {
	cfg    Config
	http   interfaces.HTTPClient
	logger interfaces.Logger
}

// NewClient creates a generator using the dependencies' HTTP client and logger
func NewClient(cfg Config, deps interfaces.Dependencies) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Client{cfg: cfg, http: deps.HTTPClient, logger: logger}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate returns a complete HTML document for prompt
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &coreerrors.ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if len(prompt) > maxPromptLen {
		return "", &coreerrors.ValidationError{Field: "prompt", Message: "prompt is too long"}
	}
	if c.http == nil || len(c.cfg.APIKeys) == 0 {
		return "", &coreerrors.ExternalAPIError{StatusCode: 503, Message: "generation is not configured", API: "ai"}
	}
	if model == "" {
		model = c.cfg.Model
	}

	var errs error
	for _, key := range c.cfg.APIKeys {
		doc, err := c.complete(ctx, key, prompt, model)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.logger.Warn("Generation attempt failed", map[string]interface{}{
			"key":   keyHint(key),
			"model": model,
			"error": err.Error(),
		})
		errs = multierr.Append(errs, fmt.Errorf("key %s: %w", keyHint(key), err))
	}

	c.logger.Error("All generation keys failed", map[string]interface{}{
		"attempts": len(c.cfg.APIKeys),
		"model":    model,
	})
	return "", &coreerrors.ExternalAPIError{
		StatusCode: 502,
		Message:    "all API keys failed: " + errs.Error(),
		API:        "ai",
	}
}

func (c *Client) complete(ctx context.Context, key, prompt, model string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.http.Post(ctx, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload), map[string]string{
		"Authorization": "Bearer " + key,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body().Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodyBytes))
	if err != nil {
		return "", err
	}

	var data chatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("invalid JSON (status %d): %s", resp.StatusCode(), preview(body))
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		msg := preview(body)
		if data.Error != nil && data.Error.Message != "" {
			msg = data.Error.Message
		}
		return "", fmt.Errorf("status %d: %s", resp.StatusCode(), msg)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}

	doc := StripFences(data.Choices[0].Message.Content)
	if doc == "" {
		return "", fmt.Errorf("response is empty")
	}
	return doc, nil
}

// StripFences removes markdown code fences around generated HTML
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```HTML", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func keyHint(key string) string {
	if len(key) <= 4 {
		return "..."
	}
	return "..." + key[len(key)-4:]
}

func preview(body []byte) string {
	const n = 100
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
