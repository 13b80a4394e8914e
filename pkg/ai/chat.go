package ai

import "context"

// CompletionRequest is a single-turn prompt sent to a chat backend
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ChatCompleter is implemented by every distillation backend
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Backend() string
	Model() string
}
