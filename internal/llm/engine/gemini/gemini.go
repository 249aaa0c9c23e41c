package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/platform/httpx"
)

// Engine serves chat routes from the Gemini API. Non-streaming calls are
// retried up to maxRetries times on 408, 429 and 5xx answers.
type Engine struct {
	client     *genai.Client
	maxRetries int
	retryBase  time.Duration
}

func New(ctx context.Context, cfg config.EngineConfig) (*Engine, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Engine{client: client, maxRetries: max(cfg.MaxRetries, 0), retryBase: 500 * time.Millisecond}, nil
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	contents, gcfg := buildRequest(messages, opts)
	if len(contents) == 0 {
		return "", errors.New("no messages")
	}
	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	for attempt := 0; ; attempt++ {
		resp, err = e.client.Models.GenerateContent(ctx, model, contents, gcfg)
		if err == nil || attempt >= e.maxRetries || !retryable(err) || ctx.Err() != nil {
			break
		}
		if serr := httpx.Sleep(ctx, httpx.Backoff(attempt, e.retryBase, 5*time.Second)); serr != nil {
			return "", serr
		}
	}
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", engine.ErrEmptyCompletion
	}
	return text, nil
}

func (e *Engine) StreamText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions, onDelta func(delta string) error) (string, error) {
	contents, gcfg := buildRequest(messages, opts)
	if len(contents) == 0 {
		return "", errors.New("no messages")
	}

	var full strings.Builder
	for resp, err := range e.client.Models.GenerateContentStream(ctx, model, contents, gcfg) {
		if err != nil {
			return "", fmt.Errorf("gemini stream: %w", err)
		}
		delta := resp.Text()
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return "", err
			}
		}
	}
	return full.String(), nil
}

func retryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return httpx.IsRetryableHTTPStatus(apiErr.Code)
	}
	return httpx.IsRetryableError(err)
}

// buildRequest folds system messages into the system instruction and maps
// assistant turns onto the model role.
func buildRequest(messages []engine.Message, opts engine.GenerateOptions) ([]*genai.Content, *genai.GenerateContentConfig) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case engine.RoleSystem:
			system = append(system, text)
		case engine.RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
	}

	gcfg := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		gcfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	if opts.Temperature >= 0 {
		t := float32(opts.Temperature)
		gcfg.Temperature = &t
	}
	if opts.MaxTokens > 0 {
		gcfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	return contents, gcfg
}
