package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chabad360/obs-osc/osc"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send ADDRESS [ARG...]",
	Short: "Send one OSC message",
	Long: `Send one OSC message over UDP.

Arguments are typed with a prefix (i:5, f:1.0, s:text). Without a prefix an
integer is sent as int32, a decimal as float32 and anything else as a string.`,
	Example: `  obs-osc send /obs/scene/2/go f:1
  obs-osc send --to 10.0.0.5:17999 /obs/transition/duration i:750`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		msg := osc.NewMessage(args[0])
		for _, a := range args[1:] {
			v, err := parseArg(a)
			if err != nil {
				return err
			}
			if err := msg.Append(v); err != nil {
				return err
			}
		}

		client, err := osc.Dial(to)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Send(msg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", msg, to)
		return nil
	},
}

// parseArg converts a command-line argument into an OSC argument.
func parseArg(a string) (interface{}, error) {
	if prefix, rest, ok := strings.Cut(a, ":"); ok {
		switch prefix {
		case "i":
			n, err := strconv.ParseInt(rest, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid int32 argument %q: %w", a, err)
			}
			return int32(n), nil
		case "f":
			f, err := strconv.ParseFloat(rest, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid float32 argument %q: %w", a, err)
			}
			return float32(f), nil
		case "s":
			return rest, nil
		}
	}

	if n, err := strconv.ParseInt(a, 10, 32); err == nil {
		return int32(n), nil
	}
	if f, err := strconv.ParseFloat(a, 32); err == nil {
		return float32(f), nil
	}
	return a, nil
}

func init() {
	sendCmd.Flags().String("to", "127.0.0.1:17999", "Destination host:port")
	rootCmd.AddCommand(sendCmd)
}
