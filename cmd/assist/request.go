package main

import (
	"drivesafe-service/internal/adapters/location"
	"drivesafe-service/internal/adapters/notifier"
	"drivesafe-service/internal/app"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/retry"
	"drivesafe-service/internal/services"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func (c *cli) requestCmd() *cobra.Command {
	var (
		lat, lng float64
		address  string
		kind     string
		message  string
	)

	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"sos"},
		Short:   "Send a help request to the nearest emergency center",
		Long: "Locates the requester (from --lat/--lng or by geocoding --address), resolves the\n" +
			"nearest center and posts the message to the relay at NOTIFY_URL for NOTIFY_TO.\n" +
			"Ctrl-C cancels location acquisition and dispatch.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hasLat, hasLng := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
			if hasLat != hasLng {
				return eris.New("--lat and --lng must be given together")
			}
			if !hasLat && address == "" {
				return eris.New("give --lat/--lng or --address")
			}

			where := domain.Coordinates{Lat: lat, Lng: lng}
			if hasLat {
				if err := where.Validate(); err != nil {
					return err
				}
			}

			emergency, err := domain.ParseEmergencyType(kind)
			if err != nil {
				return err
			}

			env, err := app.Build(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer env.Close()

			policy := retry.DefaultPolicy()
			policy.MaxAttempts = c.cfg.Notify.MaxAttempts
			relay, err := notifier.NewHTTPNotifier(c.cfg.Notify.URL, c.cfg.Notify.To,
				notifier.WithAttemptTimeout(c.cfg.NotifyTimeout()),
				notifier.WithRetryPolicy(policy),
			)
			if err != nil {
				return err
			}

			in := services.HelpInput{Address: address, EmergencyType: emergency, Message: message}
			if hasLat {
				// The flags play the part of the device's location service.
				located, err := services.AcquireLocation(ctx, location.Fixed{Coords: where}, "")
				if err != nil {
					return err
				}
				in.Coordinates = &located
			}

			out, err := services.RequestHelp(ctx, in, services.HelpDeps{
				Locator:   env.Locator,
				Directory: env.Directory,
				Notifier:  relay,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Help requested (id %s)\n", out.Request.ID)
			fmt.Fprintf(w, "Location: %s\n", out.Request.RequesterLocation)
			fmt.Fprintf(w, "Nearest center: %s (%.2f km)\n", out.Match.Center.Name, out.Match.DistanceKm)
			if out.Receipt.MessageSID != "" {
				fmt.Fprintf(w, "Message SID: %s\n", out.Receipt.MessageSID)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().StringVar(&address, "address", "", "address to geocode when no coordinates are given")
	cmd.Flags().StringVar(&kind, "type", "", "emergency type: Fire, Police, Accident or \"Break Down\"")
	cmd.Flags().StringVar(&message, "message", "", "free text for responders")
	return cmd
}
