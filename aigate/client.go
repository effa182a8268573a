// Package aigate is the authoritative policy gate: the raw text (not the
// normalized form, so the model applies its own contextual understanding) is
// sent to an external LLM with a fixed policy prompt and a strict JSON
// response contract. Every failure mode surfaces as a service error, never
// as a silent allow.
package aigate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const systemPrompt = `You are a content moderator for a neighborhood community app where people post short local updates. Evaluate the following post against these policy categories:
- profanity or slurs in any language, including disguised spellings
- harassment, hate, or threats toward a person or group
- personal identifying information or doxxing (naming a private individual together with their location or contact details)
- sexual content or sexual solicitation
- solicitation of off-platform contact (phone numbers, social handles, "DM me")
- spam, gibberish, or nonsense
- dangerous or violent content

Respond with exactly one JSON object and nothing else:
{"decision": "allow" or "block", "category": "<matched category or none>", "confidence": <0.0-1.0>, "reason": "<short explanation>"}`

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 3000 * time.Millisecond
	DefaultBackoff = 500 * time.Millisecond
)

// Verdict is a successfully parsed classification.
type Verdict struct {
	Allowed    bool
	Category   string
	Confidence float64
	Reason     string
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	HTTP    *http.Client
	Logger  *slog.Logger
	APIKey  string
	BaseURL string
	Model   string
	// Timeout applies per attempt.
	Timeout time.Duration
	// Backoff is the fixed delay before the single retry.
	Backoff time.Duration
}

func NewClient(logger *slog.Logger, apiKey string) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		// transport-level retries are deliberately absent here: the gate
		// owns its retry policy so failures keep service-error semantics
		HTTP:    &http.Client{},
		Logger:  logger,
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		Timeout: DefaultTimeout,
		Backoff: DefaultBackoff,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Moderate classifies raw text, retrying once after a fixed backoff. Any
// error return means the classifier could not produce an authoritative
// answer; it never means the content was acceptable.
func (c *Client) Moderate(ctx context.Context, raw string) (Verdict, error) {
	if c.APIKey == "" {
		return Verdict{}, fmt.Errorf("moderation classifier API key not configured")
	}

	v, err := c.attempt(ctx, raw)
	if err == nil {
		return v, nil
	}
	c.Logger.Warn("moderation classifier attempt failed, retrying", "err", err)

	select {
	case <-time.After(c.backoff()):
	case <-ctx.Done():
		return Verdict{}, ctx.Err()
	}

	v, err = c.attempt(ctx, raw)
	if err != nil {
		return Verdict{}, fmt.Errorf("moderation classifier unavailable: %w", err)
	}
	return v, nil
}

func (c *Client) attempt(ctx context.Context, raw string) (Verdict, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model(),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: raw},
		},
	})
	if err != nil {
		return Verdict{}, err
	}

	req, err := http.NewRequestWithContext(attemptCtx, "POST", c.baseURL()+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Verdict{}, fmt.Errorf("classifier endpoint status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Verdict{}, fmt.Errorf("decoding classifier response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return Verdict{}, fmt.Errorf("classifier response had no choices")
	}

	return parseVerdict(cr.Choices[0].Message.Content)
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) model() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Client) backoff() time.Duration {
	if c.Backoff > 0 {
		return c.Backoff
	}
	return DefaultBackoff
}
