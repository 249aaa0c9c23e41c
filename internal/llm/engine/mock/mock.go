package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/edubox-backend/internal/llm/engine"
)

// Engine is a deterministic offline engine. By default it echoes the last
// user message. Tests can script replies, chunking and failures.
type Engine struct {
	// Reply, when set, is returned for every call instead of the echo.
	Reply string
	// Chunks, when set, is streamed verbatim by StreamText.
	Chunks []string
	// Err is returned before any output.
	Err error
	// FailAfter aborts StreamText with FailErr after that many chunks.
	FailAfter int
	FailErr   error
	// ChunkSize splits echo/Reply output when Chunks is empty.
	ChunkSize int

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	Model    string
	Messages []engine.Message
	Opts     engine.GenerateOptions
	Stream   bool
}

func New() *Engine {
	return &Engine{ChunkSize: 16}
}

func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *Engine) record(model string, messages []engine.Message, opts engine.GenerateOptions, stream bool) {
	e.mu.Lock()
	e.calls = append(e.calls, Call{Model: model, Messages: append([]engine.Message(nil), messages...), Opts: opts, Stream: stream})
	e.mu.Unlock()
}

func (e *Engine) text(messages []engine.Message) string {
	if e.Reply != "" {
		return e.Reply
	}
	if len(e.Chunks) > 0 {
		return strings.Join(e.Chunks, "")
	}
	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, engine.RoleUser) {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok"
	}
	return fmt.Sprintf("mock: %s", user)
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	e.record(model, messages, opts, false)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Err != nil {
		return "", e.Err
	}
	return e.text(messages), nil
}

func (e *Engine) StreamText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions, onDelta func(delta string) error) (string, error) {
	e.record(model, messages, opts, true)
	if e.Err != nil {
		return "", e.Err
	}

	chunks := e.Chunks
	if len(chunks) == 0 {
		chunks = split(e.text(messages), e.ChunkSize)
	}

	var full strings.Builder
	for i, c := range chunks {
		if e.FailErr != nil && i == e.FailAfter {
			return "", e.FailErr
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if c == "" {
			continue
		}
		full.WriteString(c)
		if onDelta != nil {
			if err := onDelta(c); err != nil {
				return "", err
			}
		}
	}
	if e.FailErr != nil && e.FailAfter >= len(chunks) {
		return "", e.FailErr
	}
	return full.String(), nil
}

func split(s string, size int) []string {
	if size <= 0 {
		size = 16
	}
	out := make([]string, 0, len(s)/size+1)
	for i := 0; i < len(s); i += size {
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[i:end])
	}
	return out
}
