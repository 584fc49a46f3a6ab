package cmd

import (
	"github.com/netrixframework/mbrl/cmd/algorithms"
	"github.com/netrixframework/mbrl/cmd/learn"
	"github.com/netrixframework/mbrl/cmd/play"
	"github.com/netrixframework/mbrl/cmd/serve"
	"github.com/netrixframework/mbrl/config"
	"github.com/spf13/cobra"
)

// RootCmd returns the root cobra command of the tool
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mbrl",
		Short:        "Plan and learn on deterministic Markov Decision Processes",
		SilenceUsage: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", config.DefaultConfigPath, "Config file path")
	cmd.AddCommand(learn.LearnCmd())
	cmd.AddCommand(serve.ServeCmd())
	cmd.AddCommand(play.PlayCmd())
	cmd.AddCommand(algorithms.AlgorithmsCmd())
	return cmd
}
