package engine

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Engine is a chat-completion backend. StreamText calls onDelta for every
// non-empty text fragment in arrival order; returning an error from onDelta
// aborts the stream and StreamText returns that error.
type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
	StreamText(ctx context.Context, model string, messages []Message, opts GenerateOptions, onDelta func(delta string) error) (full string, err error)
}

// ErrEmptyCompletion is returned when the upstream answered without any text.
var ErrEmptyCompletion = errors.New("empty upstream completion")

// Prompt builds the usual two-message conversation.
func Prompt(system, user string) []Message {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	return append(msgs, Message{Role: RoleUser, Content: user})
}
