package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/platform/httpx"
)

// Engine talks to any OpenAI-compatible chat completions endpoint.
type Engine struct {
	baseURL string
	apiKey  string

	chatCompletionsPath string

	timeout       time.Duration
	streamTimeout time.Duration
	maxRetries    int
	retryBase     time.Duration

	httpClient *http.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}

	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/v1/chat/completions"
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Engine{
		baseURL:             baseURL,
		apiKey:              strings.TrimSpace(cfg.APIKey),
		chatCompletionsPath: chatPath,
		timeout:             timeout,
		streamTimeout:       cfg.StreamTimeout.Duration,
		maxRetries:          retries,
		retryBase:           500 * time.Millisecond,
		httpClient:          &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.EngineConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	e.retryBase = time.Millisecond
	return e, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

type chatCompletionStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content,omitempty"`
		} `json:"delta,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
	Error any `json:"error,omitempty"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	chatMsgs := toChatMessages(messages)
	if len(chatMsgs) == 0 {
		return "", errors.New("no messages")
	}
	reqBody := buildChatRequest(model, chatMsgs, opts, false)

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			if err := httpx.Sleep(ctx, e.backoff(attempt, lastErr)); err != nil {
				return "", err
			}
		}

		var resp chatCompletionResponse
		err := e.doJSON(ctx, e.timeout, http.MethodPost, e.chatCompletionsPath, reqBody, &resp)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil || !httpx.IsRetryableError(err) {
				return "", err
			}
			continue
		}

		// An empty answer is a valid reply to a degenerate prompt; asking
		// again would only repeat it.
		text := extractChatText(resp)
		if strings.TrimSpace(text) == "" {
			return "", engine.ErrEmptyCompletion
		}
		return text, nil
	}
	return "", lastErr
}

func (e *Engine) StreamText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions, onDelta func(delta string) error) (string, error) {
	chatMsgs := toChatMessages(messages)
	if len(chatMsgs) == 0 {
		return "", errors.New("no messages")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildChatRequest(model, chatMsgs, opts, true)); err != nil {
		return "", err
	}

	ctx2 := ctx
	if e.streamTimeout > 0 {
		var cancel context.CancelFunc
		ctx2, cancel = context.WithTimeout(ctx, e.streamTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, e.baseURL+e.chatCompletionsPath, &buf)
	if err != nil {
		return "", err
	}
	e.setHeaders(req, "application/json", "text/event-stream")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var full strings.Builder
	done := false
	err = streamSSE(resp.Body, func(_ string, data string) error {
		data = strings.TrimSpace(data)
		if data == "" || done {
			return nil
		}
		if data == "[DONE]" {
			done = true
			return nil
		}

		var chunk chatCompletionStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil
		}
		if chunk.Error != nil {
			b, _ := json.Marshal(chunk.Error)
			return fmt.Errorf("upstream stream error: %s", string(b))
		}

		for _, c := range chunk.Choices {
			delta := c.Delta.Content
			if delta == "" {
				delta = c.Text
			}
			if delta == "" {
				continue
			}
			full.WriteString(delta)
			if onDelta != nil {
				if err := onDelta(delta); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return full.String(), nil
}

func (e *Engine) backoff(attempt int, lastErr error) time.Duration {
	var he *HTTPError
	if errors.As(lastErr, &he) && he.StatusCode == http.StatusTooManyRequests {
		return httpx.Backoff(attempt, 4*e.retryBase, 10*time.Second)
	}
	return httpx.Backoff(attempt-1, e.retryBase, 5*time.Second)
}

func buildChatRequest(model string, messages []chatMessage, opts engine.GenerateOptions, stream bool) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: opts.MaxTokens,
		Stream:    stream,
	}
	if opts.Temperature >= 0 {
		t := opts.Temperature
		req.Temperature = &t
	}
	return req
}

func toChatMessages(messages []engine.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, chatMessage{Role: role, Content: content})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}

func (e *Engine) setHeaders(req *http.Request, contentType string, accept string) {
	if strings.TrimSpace(contentType) != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if strings.TrimSpace(accept) != "" {
		req.Header.Set("Accept", accept)
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
}

func (e *Engine) doJSON(ctx context.Context, timeout time.Duration, method string, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx2 := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx2, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx2, method, e.baseURL+path, &buf)
	if err != nil {
		return err
	}
	e.setHeaders(req, "application/json", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
