package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFromConfigDefaultsToFake(t *testing.T) {
	gen, err := NewFromConfig(context.Background(), ProviderConfig{})
	require.NoError(t, err)
	require.Equal(t, "FakeLLM", gen.Name())
	require.NoError(t, gen.Close())
}

func TestNewFromConfigRejectsUnknownProvider(t *testing.T) {
	_, err := NewFromConfig(context.Background(), ProviderConfig{Provider: "clippy"})
	require.Error(t, err)
}

func TestNewFromConfigGroqDefaultsModel(t *testing.T) {
	gen, err := NewFromConfig(context.Background(), ProviderConfig{Provider: "groq", GroqAPIKey: "test"})
	require.NoError(t, err)
	require.Equal(t, "Groq:llama-3.3-70b-versatile", gen.Name())
	require.NoError(t, gen.Close())
}
