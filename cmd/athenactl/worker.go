// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"github.com/spf13/cobra"

	"github.com/featureform/athenaspark/runner"
	"github.com/featureform/athenaspark/runner/worker"
)

func newWorkerCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the task described by the NAME and CONFIG environment variables",
		Long: `Run the task described by the NAME and CONFIG environment variables.
NAME is ATHENA_SPARK_CALCULATION or ATHENA_SPARK_SENSOR, CONFIG is its JSON config. TEMPLATE_VARS and
OUTPUT_PATH are optional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return worker.Run(cmd.Context(), runner.Dependencies{
				HookFactory: c.hookFactory,
				Logger:      c.logger,
				Metrics:     c.metrics,
				Notifier:    c.notifier,
				App:         *c.app,
			})
		},
	}
}
