package play

import (
	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/cmd/common"
	"github.com/netrixframework/mbrl/log"
	"github.com/spf13/cobra"
)

// PlayCmd returns the command stepping through a learned agent interactively
func PlayCmd() *cobra.Command {
	flags := &common.Flags{}
	cmd := &cobra.Command{
		Use:   "play ALGORITHM",
		Short: "Learn with the algorithm and play step by step from the initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := agents.ParseAlgorithm(args[0])
			if err != nil {
				return err
			}
			ctx, err := flags.Context(cmd)
			if err != nil {
				return err
			}
			defer log.Destroy()

			run, err := ctx.Learn(id)
			if err != nil {
				return err
			}
			return NewSession(run.Env, run.Agent, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
	flags.Register(cmd)
	return cmd
}
