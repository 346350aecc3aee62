package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/DIvanCode/rwlock/internal/scenario"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, s := range scenario.All() {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description); err != nil {
				return err
			}
		}
		return w.Flush()
	},
}
