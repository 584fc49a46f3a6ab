package serve

import (
	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/apiserver"
	"github.com/netrixframework/mbrl/cmd/common"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/util"
	"github.com/spf13/cobra"
)

// ServeCmd returns the command serving a learned agent over HTTP
func ServeCmd() *cobra.Command {
	flags := &common.Flags{}
	var addr string
	cmd := &cobra.Command{
		Use:   "serve ALGORITHM",
		Short: "Learn with the algorithm and serve the agent until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := agents.ParseAlgorithm(args[0])
			if err != nil {
				return err
			}
			termCh := util.Term()

			ctx, err := flags.Context(cmd)
			if err != nil {
				return err
			}
			defer log.Destroy()
			if addr != "" {
				ctx.Config.APIServerAddr = addr
			}

			run, err := ctx.Learn(id)
			if err != nil {
				return err
			}
			server := apiserver.NewAPIServer(ctx.Config.APIServerAddr, run.Env, run.Agent, ctx.Recorder.Registry(), ctx.Logger)
			if err := server.Start(); err != nil {
				return err
			}

			select {
			case <-termCh:
			case <-server.QuitCh():
			}
			return server.Stop()
		},
	}
	flags.Register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Address of the HTTP server")
	return cmd
}
