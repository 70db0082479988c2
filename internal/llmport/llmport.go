// Package llmport implements the LLM Port (C6): an asynchronous
// request/response boundary for chat completions. The concrete HTTP
// client for the model vendor is out of scope per the spec; this package
// defines the Port interface and a generic HTTP-backed implementation
// that any OpenAI-compatible chat endpoint can satisfy.
package llmport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
	"github.com/Delta-in-hub/FuseLLM/metrics"
)

// Message is one entry in the list sent to the chat endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Port is the boundary the State Store's write handlers submit chat
// requests through. Implementations must be safe for concurrent use.
type Port interface {
	Chat(ctx context.Context, cfg state.EffectiveConfig, history []Message) (string, error)
}

// BuildMessages assembles the message list for a chat call: an optional
// leading system message from cfg.SystemPrompt, followed by the
// conversation's turns in order.
func BuildMessages(cfg state.EffectiveConfig, turns []state.Turn) []Message {
	msgs := make([]Message, 0, len(turns)+1)
	if cfg.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: cfg.SystemPrompt})
	}
	for _, t := range turns {
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}

// HTTPPort is an OpenAI-compatible chat-completions client.
type HTTPPort struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Timeout    time.Duration
	Metrics    *metrics.Metrics
}

// NewHTTPPort builds an HTTPPort with sane defaults: a 30s per-call
// timeout and a rate limiter admitting reqsPerSecond requests/second with
// a burst of 1. m may be nil, in which case Chat skips recording latency.
func NewHTTPPort(baseURL, apiKey string, reqsPerSecond float64, m *metrics.Metrics) *HTTPPort {
	return &HTTPPort{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
		Limiter:    rate.NewLimiter(rate.Limit(reqsPerSecond), 1),
		Timeout:    30 * time.Second,
		Metrics:    m,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends history to the configured chat-completions endpoint and
// returns the assistant's reply. Network, 4xx, and parse failures all
// map to a single LLMFailure carrying a message, per the error taxonomy.
func (p *HTTPPort) Chat(ctx context.Context, cfg state.EffectiveConfig, history []Message) (string, error) {
	start := time.Now()
	if p.Metrics != nil {
		defer func() {
			p.Metrics.LLMRequestSeconds.WithLabelValues(cfg.Model).Observe(time.Since(start).Seconds())
		}()
	}

	if err := p.Limiter.Wait(ctx); err != nil {
		return "", vfserr.LLMFailuref("rate limiter: %s", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	reqBody := chatRequest{Model: cfg.Model, Messages: history, Temperature: cfg.Temperature}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", vfserr.LLMFailuref("encoding request: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", vfserr.LLMFailuref("building request: %s", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", vfserr.LLMFailuref("request failed: %s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", vfserr.LLMFailuref("reading response: %s", err)
	}

	if resp.StatusCode >= 400 {
		return "", vfserr.LLMFailuref("chat endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", vfserr.LLMFailuref("parsing response: %s", err)
	}
	if out.Error != nil {
		return "", vfserr.LLMFailuref("chat endpoint error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", vfserr.LLMFailuref("chat endpoint returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
