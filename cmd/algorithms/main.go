package algorithms

import (
	"fmt"

	"github.com/netrixframework/mbrl/agents"
	"github.com/spf13/cobra"
)

// AlgorithmsCmd returns the command listing the algorithm identifiers
func AlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, id := range agents.Algorithms() {
				fmt.Fprintln(cmd.OutOrStdout(), id.String())
			}
		},
	}
}
