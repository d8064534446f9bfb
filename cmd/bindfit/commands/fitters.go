package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type fitterInfo struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Stoichiometry string   `json:"stoichiometry"`
	Params        []string `json:"params"`
}

func fittersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fitters",
		Short: "List the available binding models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			functions := opts.service.Registry().List()
			infos := make([]fitterInfo, len(functions))
			for i, f := range functions {
				infos[i] = fitterInfo{
					Name:          f.Name.String(),
					Kind:          string(f.Kind),
					Stoichiometry: f.Stoichiometry,
					Params:        f.ParamNames,
				}
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tSTOICHIOMETRY\tPARAMS")
			for _, f := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, f.Kind, f.Stoichiometry, strings.Join(f.Params, ","))
			}
			return tw.Flush()
		},
	}
}
