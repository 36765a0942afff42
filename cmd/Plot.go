package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZararB/DogWalker/experiment/trackers"
)

// PlotCommand returns the command plotting data saved by trackers
func PlotCommand() *cobra.Command {
	var (
		out    string
		title  string
		yLabel string
		window int
	)

	cmd := &cobra.Command{
		Use:   "plot DATA_FILE...",
		Short: "Plot per-episode data saved by a run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series := make([]trackers.Series, 0, len(args))
			for _, filename := range args {
				data, err := trackers.LoadData(filename)
				if err != nil {
					return err
				}
				name := strings.TrimSuffix(filepath.Base(filename),
					filepath.Ext(filename))
				series = append(series, trackers.Series{Name: name, Data: data})
			}

			err := trackers.PlotReturns(out, title, yLabel, window, series...)
			if err != nil {
				return err
			}
			logger.Info("saved plot", zap.String("file", out),
				zap.Int("series", len(series)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "returns.png",
		"Image file to save the plot to")
	cmd.Flags().StringVar(&title, "title", "Episodic return", "Plot title")
	cmd.Flags().StringVar(&yLabel, "ylabel", "Return", "Y axis label")
	cmd.Flags().IntVarP(&window, "window", "w", 10,
		"Number of episodes to smooth over")
	return cmd
}
