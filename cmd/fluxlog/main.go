package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fluxlog:", err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "fluxlog",
		Short:         "fluxlog query tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFilterCommand())
	return root
}
