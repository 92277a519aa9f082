package main

import (
	"drivesafe-service/internal/app"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) centersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "centers",
		Short: "List the emergency center catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Build(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer env.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLATITUDE\tLONGITUDE")
			for _, ctr := range env.Directory.All() {
				fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\n", ctr.ID, ctr.Name, ctr.Location.Lat, ctr.Location.Lng)
			}
			return tw.Flush()
		},
	}
}
