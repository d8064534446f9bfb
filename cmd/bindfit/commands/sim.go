package commands

import (
	"fmt"
	"text/tabwriter"

	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/fitting"

	"github.com/spf13/cobra"
)

func simCmd(opts *options) *cobra.Command {
	var (
		fitter string
		params []float64
		h0     float64
		g0Max  float64
		points int
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Simulate speciation for fixed binding constants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := valueobjects.ParseFitterName(fitter)
			if err != nil {
				return err
			}
			f, err := opts.service.Function(name, params)
			if err != nil {
				return err
			}
			hs, gs, err := fitting.TitrationSeries(h0, g0Max, points)
			if err != nil {
				return err
			}
			sim, err := f.Simulate(params, hs, gs)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"fitter":   name.String(),
					"params":   params,
					"h0":       sim.H0,
					"g0":       sim.G0,
					"geq":      sim.Geq,
					"molefrac": sim.Molefrac,
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprint(tw, "g0\tgeq")
			for s := range sim.Molefrac {
				fmt.Fprintf(tw, "\tspecies%d", s)
			}
			fmt.Fprintln(tw)
			for i := range sim.G0 {
				row := []float64{sim.G0[i], sim.Geq[i]}
				for s := range sim.Molefrac {
					row = append(row, sim.Molefrac[s][i])
				}
				fmt.Fprintln(tw, formatRow(row))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&fitter, "fitter", "f", string(valueobjects.FitterNMR1to1), "binding model")
	cmd.Flags().Float64SliceVarP(&params, "param", "k", []float64{1000}, "binding constant (repeatable)")
	cmd.Flags().Float64Var(&h0, "h0", 1e-3, "host concentration in M")
	cmd.Flags().Float64Var(&g0Max, "g0-max", 1e-2, "final guest concentration in M")
	cmd.Flags().IntVar(&points, "points", 21, "number of titration points")
	return cmd
}
