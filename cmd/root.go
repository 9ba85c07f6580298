package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockledger",
	Short: "Stock ledger engine CLI",
	Long:  "CLI for the stock ledger engine: migrations, cron jobs and maintenance tasks.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printBanner()
	},
}

// Execute runs the root command with all registered subcommands.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// printBanner prints an ASCII banner on start (random font each run).
func printBanner() {
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "rectangles"}
	fig := figure.NewFigure("StockLedger", fonts[rand.Intn(len(fonts))], true)
	fig.Print()
}
