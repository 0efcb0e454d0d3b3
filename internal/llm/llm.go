package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("llm: empty completion from model")

// Request carries one generation call: the user's prompt plus the assembled
// workspace context.
type Request struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

// Result is the generated script text.
type Result struct {
	Script string `json:"script"`
}

// ScriptGenerator produces a script from a prompt and its context.
type ScriptGenerator interface {
	Name() string
	GenerateScript(ctx context.Context, req Request) (Result, error)
	Close() error
}

// buildUserContent renders the request as a single text part; providers
// without a separate context channel all share this layout.
func buildUserContent(req Request) string {
	if req.Context == "" {
		return req.Prompt
	}
	return req.Prompt + "\n\n[CONTEXT]\n" + req.Context
}

const systemInstruction = "You are a script-writing assistant embedded in a workspace canvas. " +
	"Use the provided context blocks from connected windows to ground your answer. " +
	"Respond with the script text only."
