package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the router configuration for consistency",
	Long: `Compiles the configuration and verifies that every branch holds a
complete percentage allocation, so routing cannot hit an unconfigured split.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := espalier.New(configPath); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Configuration is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
