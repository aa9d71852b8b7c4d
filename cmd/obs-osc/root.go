package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "obs-osc",
	Short: "obs-osc controls a production switcher with OSC messages",
	Long: `obs-osc listens for OSC messages over UDP and turns /obs/... addresses into
scene preview, transition, recording and streaming actions on a host.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
