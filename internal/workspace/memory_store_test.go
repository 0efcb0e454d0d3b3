package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutNormalizes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	stored, err := s.Put(ctx, WindowItem{
		ID:          "  a  ",
		Title:       "   ",
		Type:        "",
		Content:     "body",
		Connections: []Connection{{To: " b "}, {To: "  "}},
	})
	require.NoError(t, err)
	require.Equal(t, "a", stored.ID)
	require.Equal(t, "Untitled", stored.Title)
	require.Equal(t, "text", stored.Type)
	require.Equal(t, []Connection{{To: "b"}}, stored.Connections)
	require.NotZero(t, stored.CreatedAtUnixMs)

	_, err = s.Put(ctx, WindowItem{ID: "   "})
	require.Error(t, err)
}

func TestMemoryStorePutPreservesCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Put(ctx, WindowItem{ID: "a", Content: "v1"})
	require.NoError(t, err)

	second, err := s.Put(ctx, WindowItem{ID: "a", Content: "v2", CreatedAtUnixMs: first.CreatedAtUnixMs + 5000})
	require.NoError(t, err)
	require.Equal(t, first.CreatedAtUnixMs, second.CreatedAtUnixMs)
	require.Equal(t, "v2", second.Content)
}

func TestMemoryStoreGetAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Put(ctx, WindowItem{ID: "a", Title: "A"})
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, " a ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", got.Title)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Delete(ctx, "a"))
	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	// deleting an absent item is not an error
	require.NoError(t, s.Delete(ctx, "a"))
}

func TestMemoryStoreListOrdersByCreation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, it := range []WindowItem{
		{ID: "c", CreatedAtUnixMs: 300},
		{ID: "a", CreatedAtUnixMs: 100},
		{ID: "b2", CreatedAtUnixMs: 200},
		{ID: "b1", CreatedAtUnixMs: 200},
	} {
		_, err := s.Put(ctx, it)
		require.NoError(t, err)
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	require.Equal(t, []string{"a", "b1", "b2", "c"}, ids)
}
