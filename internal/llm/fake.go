package llm

import (
	"context"
	"fmt"
	"strings"
)

// FakeClient returns a deterministic script for offline runs and tests. It
// is the default provider when no API key is configured.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateScript(_ context.Context, req Request) (Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	blocks := 0
	if strings.TrimSpace(req.Context) != "" {
		blocks = strings.Count(req.Context, "## ")
	}
	return Result{
		Script: fmt.Sprintf("(fake script for %q, grounded on %d context block(s))", prompt, blocks),
	}, nil
}
