// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"github.com/spf13/cobra"

	"github.com/featureform/athenaspark/fferr"
)

func newLogsCommand(c *cli) *cobra.Command {
	var stderr, result bool
	cmd := &cobra.Command{
		Use:   "logs <calculation-execution-id>",
		Short: "Print the stdout (or stderr, or result) a calculation wrote to S3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if stderr && result {
				return fferr.NewInvalidArgumentErrorf("--stderr and --result are mutually exclusive")
			}
			inspector, err := c.inspector(cmd.Context(), c.connID())
			if err != nil {
				return err
			}
			calc, err := inspector.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			stream, uri := "stdout", calc.StdOutS3URI
			switch {
			case stderr:
				stream, uri = "stderr", calc.StdErrorS3URI
			case result:
				stream, uri = "result", calc.ResultS3URI
			}
			if uri == "" {
				return fferr.NewInvalidArgumentErrorf("calculation %s has no %s location (state %s)", args[0], stream, calc.State)
			}
			data, err := inspector.FetchOutput(cmd.Context(), uri)
			if err != nil {
				return err
			}
			c.printf("%s", data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&stderr, "stderr", false, "Print stderr instead of stdout")
	cmd.Flags().BoolVar(&result, "result", false, "Print the result object instead of stdout")
	return cmd
}
