package contextbuild

import (
	"encoding/json"
	"fmt"
	"strings"
)

// docRecord is one entry of a doc item's serialized content.
type docRecord struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// flattenDoc parses raw as a sequence of document records and renders them
// one per block. Malformed or non-sequence content falls back to the raw
// text unmodified; the second result reports which branch was taken.
func flattenDoc(raw string) (string, bool) {
	var records []docRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return raw, false
	}
	if records == nil {
		// JSON null or equivalent: parsed, but not a sequence.
		return raw, false
	}
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, fmt.Sprintf("Document: %s\n%s", r.Name, r.Content))
	}
	return strings.Join(parts, "\n\n"), true
}
