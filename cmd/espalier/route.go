package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route [order.json]",
	Short: "Route a single order through the tree",
	Long: `Reads an order as JSON from the given file (or stdin when omitted),
routes it through the configured tree and prints the decision.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRoute(cmd, args); err != nil {
			fmt.Printf("Routing failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().Uint64("seed", 0, "Seed the random source for reproducible draws")
}

func runRoute(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	seed, _ := cmd.Flags().GetUint64("seed")

	var opts []espalier.Option
	if seed != 0 {
		opts = append(opts, espalier.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}

	engine, err := espalier.New(configPath, opts...)
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}

	var reader io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		reader = f
	}

	var order domain.Order
	if err := json.NewDecoder(reader).Decode(&order); err != nil {
		return fmt.Errorf("failed to decode order: %w", err)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	decision, err := engine.Route(context.Background(), &order)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
