package main

import (
	"drivesafe-service/internal/app"
	"drivesafe-service/internal/domain"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) nearestCmd() *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Resolve the closest emergency center to a coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			where := domain.Coordinates{Lat: lat, Lng: lng}
			if err := where.Validate(); err != nil {
				return err
			}

			env, err := app.Build(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer env.Close()

			match, err := env.Directory.Nearest(where)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Nearest center: %s (%.2f km)\n", match.Center.Name, match.DistanceKm)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
