package contextbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scriptdeck/internal/workspace"
)

func TestAssembleConnectedItems(t *testing.T) {
	focal := workspace.WindowItem{
		ID:          "A",
		Connections: []workspace.Connection{{To: "B"}, {To: "C"}},
	}
	items := []workspace.WindowItem{
		{ID: "A", Title: "Focal", Type: "text", Content: "ignored"},
		{ID: "B", Title: "T1", Type: "text", Content: "hello"},
		{ID: "C", Title: "T2", Type: "doc", Content: `[{"name":"d1","content":"x"}]`},
	}

	got := Assemble(focal, items)
	want := "## T1 (text)\nhello\n\n---\n\n## T2 (doc)\nDocument: d1\nx"
	require.Equal(t, want, got)
}

func TestAssembleNoConnections(t *testing.T) {
	focal := workspace.WindowItem{ID: "A"}
	items := []workspace.WindowItem{{ID: "B", Title: "T1", Type: "text", Content: "hello"}}
	require.Equal(t, "", Assemble(focal, items))
}

func TestAssembleNoMatches(t *testing.T) {
	focal := workspace.WindowItem{ID: "A", Connections: []workspace.Connection{{To: "Z"}}}
	items := []workspace.WindowItem{{ID: "B", Title: "T1", Type: "text", Content: "hello"}}
	require.Equal(t, "", Assemble(focal, items))
}

func TestAssembleDuplicateTargetsYieldOneBlock(t *testing.T) {
	focal := workspace.WindowItem{
		ID:          "A",
		Connections: []workspace.Connection{{To: "B"}, {To: "B"}},
	}
	items := []workspace.WindowItem{{ID: "B", Title: "T1", Type: "text", Content: "hello"}}
	// Membership filtering scans the collection once, so a doubly connected
	// item still renders a single block.
	require.Equal(t, "## T1 (text)\nhello", Assemble(focal, items))
}

func TestAssembleFollowsCollectionOrder(t *testing.T) {
	focal := workspace.WindowItem{
		ID:          "A",
		Connections: []workspace.Connection{{To: "C"}, {To: "B"}},
	}
	items := []workspace.WindowItem{
		{ID: "B", Title: "T1", Type: "text", Content: "one"},
		{ID: "C", Title: "T2", Type: "text", Content: "two"},
	}
	require.Equal(t, "## T1 (text)\none\n\n---\n\n## T2 (text)\ntwo", Assemble(focal, items))
}

func TestAssembleMalformedDocFallsBackToRawText(t *testing.T) {
	focal := workspace.WindowItem{ID: "A", Connections: []workspace.Connection{{To: "B"}}}
	items := []workspace.WindowItem{
		{ID: "B", Title: "T1", Type: "doc", Content: "not json"},
	}
	require.Equal(t, "## T1 (doc)\nnot json", Assemble(focal, items))
}

func TestFlattenDoc(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		parsed bool
	}{
		{
			name:   "two records",
			raw:    `[{"name":"d1","content":"x"},{"name":"d2","content":"y"}]`,
			want:   "Document: d1\nx\n\nDocument: d2\ny",
			parsed: true,
		},
		{
			name:   "empty sequence",
			raw:    `[]`,
			want:   "",
			parsed: true,
		},
		{
			name:   "malformed",
			raw:    "not json",
			want:   "not json",
			parsed: false,
		},
		{
			name:   "json null is not a sequence",
			raw:    "null",
			want:   "null",
			parsed: false,
		},
		{
			name:   "json object is not a sequence",
			raw:    `{"name":"d1"}`,
			want:   `{"name":"d1"}`,
			parsed: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := flattenDoc(tt.raw)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.parsed, parsed)
		})
	}
}
