// Package main is the varpage diagnostic tool: a demo server that speaks
// the large-object paging protocol over TCP against a synthetic object
// graph, and a one-shot client for poking at it.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "varpage",
	Short:         "Large-object paging protocol demo tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, callCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
