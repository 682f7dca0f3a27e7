// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"github.com/spf13/cobra"
)

func newStopCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <calculation-execution-id>",
		Short: "Request a stop for a running calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executionID := args[0]
			hook, err := c.hookFactory(cmd.Context(), c.connID())
			if err != nil {
				return err
			}
			err = hook.StopCalculationExecution(cmd.Context(), executionID)
			c.metrics.ObserveStop(err)
			if err != nil {
				return err
			}
			c.printf("stop requested for %s\n", executionID)
			return nil
		},
	}
}
