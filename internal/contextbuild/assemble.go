// Package contextbuild turns the items connected from a focal window item
// into the textual context that rides along with a chat prompt.
package contextbuild

import (
	"fmt"
	"strings"

	"scriptdeck/internal/workspace"
)

const blockSeparator = "\n\n---\n\n"

// Assemble resolves the focal item's outbound connections, filters items to
// the connected subset (in items order) and renders each as a titled block.
// Returns the empty string when nothing is connected.
func Assemble(focal workspace.WindowItem, items []workspace.WindowItem) string {
	targets := make(map[string]struct{}, len(focal.Connections))
	for _, c := range focal.Connections {
		id := strings.TrimSpace(c.To)
		if id == "" {
			continue
		}
		targets[id] = struct{}{}
	}
	if len(targets) == 0 {
		return ""
	}

	var blocks []string
	for _, item := range items {
		if _, ok := targets[item.ID]; !ok {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("## %s (%s)\n%s", item.Title, item.Type, contentBlock(item)))
	}
	return strings.Join(blocks, blockSeparator)
}

func contentBlock(item workspace.WindowItem) string {
	if item.Type != workspace.TypeDoc {
		return item.Content
	}
	flattened, _ := flattenDoc(item.Content)
	return flattened
}
