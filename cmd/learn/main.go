package learn

import (
	"github.com/netrixframework/mbrl/cmd/common"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/report"
	"github.com/spf13/cobra"
)

// LearnCmd returns the command learning with one or more algorithms
func LearnCmd() *cobra.Command {
	flags := &common.Flags{}
	var plot string
	var limit int
	cmd := &cobra.Command{
		Use:   "learn ALGORITHM [ALGORITHM...]",
		Short: "Learn with the given algorithms, ALL runs every algorithm",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := common.Algorithms(args)
			if err != nil {
				return err
			}
			ctx, err := flags.Context(cmd)
			if err != nil {
				return err
			}
			defer log.Destroy()

			reports := make([]*report.Report, 0, len(ids))
			for _, id := range ids {
				run, err := ctx.Learn(id)
				if err != nil {
					return err
				}
				report.Print(cmd.OutOrStdout(), run.Report, limit)
				reports = append(reports, run.Report)
			}
			if plot != "" {
				if err := report.PlotFile(plot, reports...); err != nil {
					return err
				}
				ctx.Logger.With(log.LogParams{"path": plot}).Info("Saved convergence plot")
			}
			return nil
		},
	}
	flags.Register(cmd)
	cmd.Flags().StringVar(&plot, "plot", "", "HTML file of the convergence plot")
	cmd.Flags().IntVar(&limit, "print", 10, "Number of states whose Q-values are printed, -1 prints all")
	return cmd
}
