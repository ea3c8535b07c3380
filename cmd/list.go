package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"firestige.xyz/nomgen/internal/protocols"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in protocols",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(protocols.Default(), cmd.OutOrStdout())
	},
}

func runList(r *protocols.Registry, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROTOCOL\tDESCRIPTION")
	for _, p := range r.List() {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Description)
	}
	return tw.Flush()
}
