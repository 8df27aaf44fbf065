// Package graph renders the routing tree for visualization tools.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart from a tree snapshot.
// Branches render as rectangles and leaves as stadiums carrying their venue;
// every edge is labeled with the child's allocated percentage, and nodes
// with rules list them on a second label line.
func GenerateMermaid(info domain.NodeInfo) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeNode(&sb, info, "n0")
	return sb.String()
}

func writeNode(sb *strings.Builder, info domain.NodeInfo, id string) {
	label := info.Name
	if info.Kind == domain.NodeKindLeaf && info.Venue != "" && info.Venue != info.Name {
		label += "<br/>" + info.Venue
	}
	if len(info.Rules) > 0 {
		// Escape double quotes for Mermaid labels.
		rules := strings.ReplaceAll(strings.Join(info.Rules, " AND "), "\"", "'")
		label += "<br/>" + rules
	}

	opener, closer := "[", "]"
	if info.Kind == domain.NodeKindLeaf {
		opener, closer = "([", "])"
	}
	fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

	for i, child := range info.Children {
		childID := fmt.Sprintf("%s_%d", id, i)
		fmt.Fprintf(sb, "    %s -- \"%d%%\" --> %s\n", id, child.Percent, childID)
		writeNode(sb, child, childID)
	}
}
