// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/featureform/athenaspark/sensor"
)

func newSenseCommand(c *cli) *cobra.Command {
	var (
		pokeInterval time.Duration
		timeout      time.Duration
		softFail     bool
	)
	cmd := &cobra.Command{
		Use:   "sense <calculation-execution-id>...",
		Short: "Wait until calculations complete",
		Long:  "Wait until every given calculation is COMPLETED. Fails as soon as one of them fails or times out.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := c.app.Sensor
			if cmd.Flags().Changed("poke-interval") {
				defaults.PokeInterval = pokeInterval
			}
			if cmd.Flags().Changed("timeout") {
				defaults.Timeout = timeout
			}
			if cmd.Flags().Changed("soft-fail") {
				defaults.SoftFail = softFail
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			for _, executionID := range args {
				s := sensor.NewAthenaSparkSensor(executionID,
					sensor.WithHookFactory(c.hookFactory),
					sensor.WithLogger(c.logger),
					sensor.WithMetrics(c.metrics),
					sensor.WithNotifier(c.notifier),
					sensor.WithAWSConnID(c.connID()),
				)
				task := sensor.NewTask(s, sensor.NewBaseSensor(defaults, executionID))
				g.Go(func() error {
					id, err := task.Execute(ctx)
					if err != nil {
						return err
					}
					c.printf("%s COMPLETED\n", id)
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().DurationVar(&pokeInterval, "poke-interval", 0, "Time between status checks (default 60s)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (default 7 days)")
	cmd.Flags().BoolVar(&softFail, "soft-fail", false, "Report a timeout as skipped instead of failed")
	return cmd
}
