// Package common holds the flags and setup shared by the subcommands
package common

import (
	"fmt"
	"strings"

	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/config"
	"github.com/netrixframework/mbrl/context"
	"github.com/netrixframework/mbrl/log"
	"github.com/spf13/cobra"
)

// Flags override the values of the config file when set
type Flags struct {
	Env     string
	Graph   string
	Reward  string
	Explore string
	Report  string
	Seed    uint64
}

// Register adds the flags to cmd
func (f *Flags) Register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.Env, "env", "", "Environment kind, tictactoe|graph")
	fs.StringVar(&f.Graph, "graph", "", "Graph file (JSON or YAML) of the graph environment")
	fs.StringVar(&f.Reward, "reward", "", "Tic-tac-toe reward strategy, ONTHEFLY|ONCEANDFORALL")
	fs.StringVar(&f.Explore, "explore", "", "Exploration strategy, PREPROCESS|RECURSIVE|NONE")
	fs.StringVar(&f.Report, "report", "", "Directory where run reports are stored")
	fs.Uint64Var(&f.Seed, "seed", 0, "Seed of the randomized solvers, 0 seeds from the clock")
}

// Apply copies the flags that were set onto conf
func (f *Flags) Apply(cmd *cobra.Command, conf *config.Config) {
	if f.Env != "" {
		conf.EnvConfig.Kind = f.Env
	}
	if f.Graph != "" {
		conf.EnvConfig.GraphPath = f.Graph
		if f.Env == "" {
			conf.EnvConfig.Kind = context.GraphKind
		}
	}
	if f.Reward != "" {
		conf.EnvConfig.Reward = f.Reward
	}
	if f.Explore != "" {
		conf.Exploration = f.Explore
	}
	if f.Report != "" {
		conf.ReportDir = f.Report
	}
	if cmd.Flags().Changed("seed") {
		conf.Seed = f.Seed
	}
}

// Context parses the config file, applies the flags, initializes logging
// and creates the RootContext
func (f *Flags) Context(cmd *cobra.Command) (*context.RootContext, error) {
	conf, err := config.ParseConfig(config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %s", err)
	}
	f.Apply(cmd, conf)
	log.Init(conf.LogConfig)
	return context.NewRootContext(conf, log.DefaultLogger)
}

// Algorithms parses the algorithm arguments, ALL selects every algorithm
func Algorithms(args []string) ([]agents.AlgorithmID, error) {
	res := make([]agents.AlgorithmID, 0, len(args))
	for _, arg := range args {
		if strings.EqualFold(arg, "all") {
			return agents.Algorithms(), nil
		}
		id, err := agents.ParseAlgorithm(arg)
		if err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, nil
}
