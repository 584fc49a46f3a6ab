package context

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/config"
	"github.com/netrixframework/mbrl/env"
	"github.com/netrixframework/mbrl/env/graph"
	"github.com/netrixframework/mbrl/env/tictactoe"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/metrics"
	"github.com/netrixframework/mbrl/report"
)

var (
	// ErrUnknownEnvironment is returned for an environment kind that cannot be built
	ErrUnknownEnvironment = errors.New("unknown environment kind")
	// ErrNoGraphPath is returned when a graph environment is configured without a file
	ErrNoGraphPath = errors.New("graph environment requires a graph path")
)

const (
	TicTacToeKind = "tictactoe"
	GraphKind     = "graph"
)

// RootContext stores everything a learning run needs
type RootContext struct {
	// Config and instance of the configuration object
	Config *config.Config
	// Exploration strategy used by every run
	Exploration mdp.ExplorationStrategy
	// Recorder exports the metrics of every run
	Recorder *metrics.Recorder
	// Store keeps the reports, nil when reports are disabled
	Store *report.Store
	// Logger for logging purposes
	Logger *log.Logger
}

// NewRootContext validates the configuration and creates the RootContext
func NewRootContext(conf *config.Config, logger *log.Logger) (*RootContext, error) {
	if logger == nil {
		logger = log.DefaultLogger
	}
	exploration, err := mdp.ParseExplorationStrategy(conf.Exploration)
	if err != nil {
		return nil, err
	}
	ctx := &RootContext{
		Config:      conf,
		Exploration: exploration,
		Recorder:    metrics.NewRecorder(),
		Logger:      logger,
	}
	if conf.ReportDir != "" {
		store, err := report.NewStore(conf.ReportDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create report store: %w", err)
		}
		ctx.Store = store
	}
	return ctx, nil
}

// Environment builds a fresh environment of the configured kind
func (c *RootContext) Environment() (*env.Environment, error) {
	ec := c.Config.EnvConfig
	limits := &env.Config{MaxDepth: ec.MaxDepth, MaxBreadth: ec.MaxBreadth}
	logger := c.Logger.With(log.LogParams{"env": ec.Kind})

	switch strings.ToLower(ec.Kind) {
	case TicTacToeKind:
		strategy := tictactoe.OnTheFly
		if ec.Reward != "" {
			s, err := tictactoe.ParseRewardStrategy(ec.Reward)
			if err != nil {
				return nil, err
			}
			strategy = s
		}
		return tictactoe.New(strategy).Environment(limits, logger), nil
	case GraphKind:
		if ec.GraphPath == "" {
			return nil, ErrNoGraphPath
		}
		g, err := graph.Load(ec.GraphPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return g.Environment(limits, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, ec.Kind)
}

// Run is the outcome of learning with one algorithm
type Run struct {
	Agent  agents.Agent
	Env    *env.Environment
	Report *report.Report
	// Path of the saved report, empty when reports are disabled
	Path string
}

// Learn runs the algorithm on a fresh environment and stores its report
func (c *RootContext) Learn(id agents.AlgorithmID) (*Run, error) {
	e, err := c.Environment()
	if err != nil {
		return nil, err
	}
	logger := c.Logger.With(log.LogParams{"algorithm": id.String()})
	agent, err := agents.New(id, e,
		agents.WithLogger(logger),
		agents.WithRecorder(c.Recorder),
		agents.WithSeed(c.Config.Seed),
	)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := agent.Learn(c.Exploration); err != nil {
		return nil, fmt.Errorf("%s failed: %w", id, err)
	}
	run := &Run{
		Agent: agent,
		Env:   e,
		Report: report.New(agent, e, report.Run{
			Exploration: c.Exploration,
			Environment: c.Config.EnvConfig.Kind,
			Started:     start,
			Duration:    time.Since(start),
		}),
	}
	if c.Store != nil {
		p, err := c.Store.Save(run.Report)
		if err != nil {
			return nil, fmt.Errorf("failed to save report: %w", err)
		}
		run.Path = p
		logger.With(log.LogParams{"path": p}).Info("Saved report")
	}
	return run, nil
}
