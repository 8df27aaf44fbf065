package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the routing tree visualization",
	Long: `Inspects the configured tree and renders it as a colorized text dump,
a Mermaid diagram (graph TD), or a markdown allocation report.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		format, _ := cmd.Flags().GetString("format")

		engine, err := espalier.New(configPath)
		if err != nil {
			fmt.Printf("Error initializing espalier: %v\n", err)
			os.Exit(1)
		}

		switch format {
		case "text":
			var sb strings.Builder
			engine.WriteDump(&sb)
			fmt.Print(tui.ColorizeDump(sb.String()))
		case "mermaid":
			fmt.Print(graph.GenerateMermaid(engine.Inspect()))
		case "markdown":
			report := tui.GenerateReport(engine.Name, engine.Inspect())
			render := tui.NewRenderer()
			out, err := render(report)
			if err != nil {
				fmt.Printf("Error rendering report: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(out)
		default:
			fmt.Printf("Unknown format: %s\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "text", "Output format: text, mermaid or markdown")
}
