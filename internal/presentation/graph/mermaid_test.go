package graph_test

import (
	"testing"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func sampleInfo() domain.NodeInfo {
	return domain.NodeInfo{
		Name:  "root",
		Kind:  domain.NodeKindBranch,
		Rules: []string{"side"},
		Children: []domain.NodeInfo{
			{
				Name:    "lit",
				Kind:    domain.NodeKindBranch,
				Percent: 70,
				Children: []domain.NodeInfo{
					{Name: "venue-nyse", Kind: domain.NodeKindLeaf, Venue: "NYSE", Percent: 50},
					{Name: "venue-arca", Kind: domain.NodeKindLeaf, Venue: "ARCA", Percent: 50},
				},
			},
			{Name: "venue-edgx", Kind: domain.NodeKindLeaf, Venue: "EDGX", Percent: 30, Rules: []string{"min_quantity"}},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(sampleInfo())

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `n0["root<br/>side"]`)
	assert.Contains(t, out, `n0 -- "70%" --> n0_0`)
	assert.Contains(t, out, `n0 -- "30%" --> n0_1`)
	assert.Contains(t, out, `n0_0_0(["venue-nyse<br/>NYSE"])`)
	assert.Contains(t, out, `n0_1(["venue-edgx<br/>EDGX<br/>min_quantity"])`)
}

func TestGenerateMermaidLeafMatchingVenue(t *testing.T) {
	out := graph.GenerateMermaid(domain.NodeInfo{
		Name: "NYSE", Kind: domain.NodeKindLeaf, Venue: "NYSE",
	})
	assert.Contains(t, out, `n0(["NYSE"])`)
}
