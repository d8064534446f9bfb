package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"

	"github.com/spf13/cobra"
)

type fitOutput struct {
	Fitter     string             `json:"fitter"`
	DataID     string             `json:"data_id"`
	Params     map[string]float64 `json:"params"`
	RSS        float64            `json:"rss"`
	Iterations int                `json:"iterations"`
	Status     string             `json:"status"`
	Seconds    float64            `json:"time"`
	Fit        [][]float64        `json:"fit,omitempty"`
	Residuals  [][]float64        `json:"residuals,omitempty"`
}

func fitCmd(opts *options) *cobra.Command {
	var (
		fitter string
		params []float64
		curves bool
	)

	cmd := &cobra.Command{
		Use:   "fit <data.csv>",
		Short: "Fit a binding model to a titration CSV",
		Long: "Fit a binding model to a titration CSV. The first column is the host\n" +
			"concentration, the second the guest concentration and every further\n" +
			"column an observed response.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := valueobjects.ParseFitterName(fitter)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			data, err := entities.ParseCSV(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			result, err := opts.service.Fit(ctx, name, data, params)
			if err != nil {
				return err
			}

			f, err := opts.service.Function(name, params)
			if err != nil {
				return err
			}
			out := fitOutput{
				Fitter:     name.String(),
				DataID:     data.ID().String(),
				Params:     make(map[string]float64, len(result.Params)),
				RSS:        result.RSS,
				Iterations: result.Iterations,
				Status:     result.Status,
				Seconds:    result.Duration.Seconds(),
			}
			for i, p := range result.Params {
				out.Params[f.ParamNames[i]] = p
			}
			if curves {
				out.Fit = result.Fit
				out.Residuals = result.Residuals
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "fitter\t%s\n", out.Fitter)
			fmt.Fprintf(tw, "data\t%s\n", out.DataID)
			for i, p := range result.Params {
				fmt.Fprintf(tw, "%s\t%.6g\n", f.ParamNames[i], p)
			}
			fmt.Fprintf(tw, "rss\t%.6g\n", out.RSS)
			fmt.Fprintf(tw, "iterations\t%d\n", out.Iterations)
			fmt.Fprintf(tw, "status\t%s\n", out.Status)
			if curves {
				for c := range result.Fit {
					fmt.Fprintf(tw, "fit[%d]\t%s\n", c, formatRow(result.Fit[c]))
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&fitter, "fitter", "f", string(valueobjects.FitterNMR1to1), "binding model")
	cmd.Flags().Float64SliceVarP(&params, "param", "k", []float64{1000}, "initial guess for each binding constant (repeatable)")
	cmd.Flags().BoolVar(&curves, "curves", false, "include fitted curves and residuals")
	return cmd
}
