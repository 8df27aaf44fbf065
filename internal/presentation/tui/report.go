package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// GenerateReport produces a markdown summary of the routing tree: one
// allocation table per branch, followed by the effective share of draws
// each venue leaf receives. Shares describe attempt weight only; rule
// rejections shift traffic between siblings at routing time.
func GenerateReport(title string, info domain.NodeInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", title)

	sb.WriteString("\n## Allocations\n")
	writeBranchTables(&sb, info)

	sb.WriteString("\n## Venue Shares\n\n")
	sb.WriteString("| Venue | Node | Share |\n")
	sb.WriteString("|-------|------|-------|\n")
	writeLeafShares(&sb, info, 100)

	return sb.String()
}

func writeBranchTables(sb *strings.Builder, info domain.NodeInfo) {
	if info.Kind != domain.NodeKindBranch {
		return
	}

	fmt.Fprintf(sb, "\n### %s\n\n", info.Name)
	if len(info.Rules) > 0 {
		fmt.Fprintf(sb, "Rules: %s\n\n", strings.Join(info.Rules, ", "))
	}
	sb.WriteString("| Child | Kind | Percent | Rules |\n")
	sb.WriteString("|-------|------|---------|-------|\n")
	for _, child := range info.Children {
		rules := strings.Join(child.Rules, ", ")
		if rules == "" {
			rules = "-"
		}
		fmt.Fprintf(sb, "| %s | %s | %d%% | %s |\n", child.Name, child.Kind, child.Percent, rules)
	}

	for _, child := range info.Children {
		writeBranchTables(sb, child)
	}
}

func writeLeafShares(sb *strings.Builder, info domain.NodeInfo, share float64) {
	if info.Kind == domain.NodeKindLeaf {
		fmt.Fprintf(sb, "| %s | %s | %.1f%% |\n", info.Venue, info.Name, share)
		return
	}
	for _, child := range info.Children {
		writeLeafShares(sb, child, share*float64(child.Percent)/100)
	}
}
