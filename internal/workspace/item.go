package workspace

import "strings"

// TypeDoc marks items whose content is a serialized sequence of document
// records; every other type is treated as plain text.
const TypeDoc = "doc"

// Connection is one outbound edge from a window item to another item.
type Connection struct {
	To string `json:"to"`
}

// WindowItem is a workspace object: a document, text block or similar,
// with outbound connections to other items.
type WindowItem struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Type            string       `json:"type"`
	Content         string       `json:"content"`
	Connections     []Connection `json:"connections,omitempty"`
	CreatedAtUnixMs int64        `json:"created_at_unix_ms,omitempty"`
}

func normalizeItemID(v string) string { return strings.TrimSpace(v) }

func normalizeTitle(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Untitled"
	}
	return v
}

func normalizeType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "text"
	}
	return v
}

func normalizeItem(item WindowItem) WindowItem {
	item.ID = normalizeItemID(item.ID)
	item.Title = normalizeTitle(item.Title)
	item.Type = normalizeType(item.Type)
	conns := item.Connections[:0]
	for _, c := range item.Connections {
		c.To = strings.TrimSpace(c.To)
		if c.To == "" {
			continue
		}
		conns = append(conns, c)
	}
	if len(conns) == 0 {
		conns = nil
	}
	item.Connections = conns
	return item
}
