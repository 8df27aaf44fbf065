package espalier_test

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

// ExampleNewFromConfig demonstrates routing an order through a tree defined
// as an in-memory YAML document, without reading from the filesystem.
func ExampleNewFromConfig() {
	config := []byte(`
name: demo-router
root:
  name: root
  children:
    - name: primary
      percent: 100
      venue: NYSE
    - name: backup
      percent: 0
      venue: EDGX
`)

	// Seed the random source so the example output is stable.
	eng, err := espalier.NewFromConfig(config,
		espalier.WithRand(rand.New(rand.NewPCG(1, 1))))
	if err != nil {
		log.Fatal(err)
	}

	order := &domain.Order{
		ID:        "ord-42",
		Symbol:    "AAPL",
		Side:      domain.SideBuy,
		Type:      domain.OrderTypeMarket,
		Quantity:  250,
		CreatedAt: time.Now(),
	}

	decision, err := eng.Route(context.Background(), order)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s -> %s\n", decision.OrderID, decision.Venue)

	// Output:
	// ord-42 -> NYSE
}

// ExampleEngine_WriteDump shows the diagnostic tree view with the allocation
// each child holds inside its parent.
func ExampleEngine_WriteDump() {
	config := []byte(`
root:
  name: root
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
`)

	eng, err := espalier.NewFromConfig(config)
	if err != nil {
		log.Fatal(err)
	}
	eng.WriteDump(os.Stdout)

	// Output:
	// root
	// 70 : 	lit
	// 	50 : 		venue-nyse
	// 	50 : 		venue-arca
	// 30 : 	venue-edgx
}
