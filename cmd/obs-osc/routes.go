package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/chabad360/obs-osc/obs"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the OSC addresses obs-osc understands",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ADDRESS\tACTION")
		for _, r := range obs.Routes {
			fmt.Fprintf(w, "%s\t%s\n", r.Pattern, r.Kind)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
