package espalier_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerConfig = `
name: equity-router
root:
  name: root
  rules:
    - kind: side
      params:
        side: buy
  children:
    - name: lit
      percent: 70
      children:
        - name: venue-nyse
          venue: NYSE
        - name: venue-arca
          venue: ARCA
    - name: venue-edgx
      percent: 30
      venue: EDGX
      rules:
        - kind: min_quantity
          params:
            quantity: 100
`

func buyOrder(id string, qty int64) *domain.Order {
	return &domain.Order{
		ID:        id,
		Symbol:    "AAPL",
		Side:      domain.SideBuy,
		Type:      domain.OrderTypeMarket,
		Quantity:  qty,
		CreatedAt: time.Now(),
	}
}

func TestNewFromConfig(t *testing.T) {
	eng, err := espalier.NewFromConfig([]byte(routerConfig),
		espalier.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	assert.Equal(t, "equity-router", eng.Name)

	decision, err := eng.Route(context.Background(), buyOrder("o-1", 500))
	require.NoError(t, err)
	assert.True(t, decision.Routed)
	assert.Contains(t, []string{"NYSE", "ARCA", "EDGX"}, decision.Venue)
	assert.Equal(t, "o-1", decision.OrderID)
	assert.False(t, decision.DecidedAt.IsZero())
}

func TestRouteRootRuleRejects(t *testing.T) {
	eng, err := espalier.NewFromConfig([]byte(routerConfig))
	require.NoError(t, err)

	sell := buyOrder("o-2", 500)
	sell.Side = domain.SideSell

	decision, err := eng.Route(context.Background(), sell)
	require.NoError(t, err)
	assert.False(t, decision.Routed)
	assert.Empty(t, decision.Venue)
}

func TestRouteNilOrder(t *testing.T) {
	eng, err := espalier.NewFromConfig([]byte(routerConfig))
	require.NoError(t, err)

	_, err = eng.Route(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNilOrder)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk-router.yaml")
	unnamed := strings.Replace(routerConfig, "name: equity-router\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(unnamed), 0o644))

	eng, err := espalier.New(path)
	require.NoError(t, err)
	assert.Equal(t, "desk-router", eng.Name)
}

func TestNewMissingFile(t *testing.T) {
	_, err := espalier.New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

type memJournal struct {
	decisions []domain.Decision
	err       error
}

func (m *memJournal) Record(ctx context.Context, d domain.Decision) error {
	if m.err != nil {
		return m.err
	}
	m.decisions = append(m.decisions, d)
	return nil
}

func TestRouteJournals(t *testing.T) {
	journal := &memJournal{}
	eng, err := espalier.NewFromConfig([]byte(routerConfig),
		espalier.WithJournal(journal),
		espalier.WithRand(rand.New(rand.NewPCG(3, 4))))
	require.NoError(t, err)

	_, err = eng.Route(context.Background(), buyOrder("o-3", 500))
	require.NoError(t, err)
	require.Len(t, journal.decisions, 1)
	assert.Equal(t, "o-3", journal.decisions[0].OrderID)
}

func TestRouteJournalFailureIsNotFatal(t *testing.T) {
	journal := &memJournal{err: errors.New("redis down")}
	eng, err := espalier.NewFromConfig([]byte(routerConfig),
		espalier.WithJournal(journal))
	require.NoError(t, err)

	decision, err := eng.Route(context.Background(), buyOrder("o-4", 500))
	require.NoError(t, err)
	assert.True(t, decision.Routed)
}

func TestRouteObservesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	eng, err := espalier.NewFromConfig([]byte(routerConfig),
		espalier.WithMetrics(registry),
		espalier.WithRand(rand.New(rand.NewPCG(5, 6))))
	require.NoError(t, err)

	_, err = eng.Route(context.Background(), buyOrder("o-5", 500))
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "espalier_orders_routed_total")
	assert.Contains(t, names, "espalier_routing_duration_seconds")
}

func TestInspect(t *testing.T) {
	eng, err := espalier.NewFromConfig([]byte(routerConfig))
	require.NoError(t, err)

	info := eng.Inspect()
	assert.Equal(t, "root", info.Name)
	assert.Equal(t, domain.NodeKindBranch, info.Kind)
	assert.Equal(t, []string{"side(buy)"}, info.Rules)
	require.Len(t, info.Children, 2)

	lit := info.Children[0]
	assert.Equal(t, 70, lit.Percent)
	require.Len(t, lit.Children, 2)
	// Auto-spread inside lit.
	assert.Equal(t, 50, lit.Children[0].Percent)
	assert.Equal(t, 50, lit.Children[1].Percent)
	assert.Equal(t, "NYSE", lit.Children[0].Venue)

	edgx := info.Children[1]
	assert.Equal(t, domain.NodeKindLeaf, edgx.Kind)
	assert.Equal(t, 30, edgx.Percent)
	assert.Equal(t, []string{"min_quantity(100)"}, edgx.Rules)
}

func TestWriteDump(t *testing.T) {
	eng, err := espalier.NewFromConfig([]byte(routerConfig))
	require.NoError(t, err)

	var sb strings.Builder
	eng.WriteDump(&sb)
	dump := sb.String()
	assert.Contains(t, dump, "root\n")
	assert.Contains(t, dump, "70 : \tlit")
	assert.Contains(t, dump, "30 : \tvenue-edgx")
}

func TestNodeByName(t *testing.T) {
	eng, err := espalier.NewFromConfig([]byte(routerConfig))
	require.NoError(t, err)

	node, ok := eng.NodeByName("venue-arca")
	require.True(t, ok)
	assert.True(t, node.IsLeaf())

	_, ok = eng.NodeByName("venue-bats")
	assert.False(t, ok)
}
