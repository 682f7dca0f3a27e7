// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/featureform/athenaspark/provider"
)

func newDescribeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <calculation-execution-id>",
		Short: "Show the state, statistics and output locations of a calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, err := c.inspector(cmd.Context(), c.connID())
			if err != nil {
				return err
			}
			calc, err := inspector.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			printCalculation(c.out, calc)
			return nil
		},
	}
}

func printCalculation(out io.Writer, calc *provider.Calculation) {
	fmt.Fprintln(out, "calculation state:")
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Calculation", "Session", "State", "Submitted", "Completed", "DPU ms", "Progress"})
	table.Append([]string{
		calc.ExecutionID,
		formatNotAvailable(calc.SessionID),
		calc.State,
		formatTime(calc.SubmittedAt),
		formatTime(calc.CompletedAt),
		fmt.Sprintf("%d", calc.DpuExecutionMillis),
		formatNotAvailable(calc.Progress),
	})
	table.Render()

	fmt.Fprintln(out, "output:")
	outputs := tablewriter.NewWriter(out)
	outputs.SetHeader([]string{"Stream", "Location"})
	outputs.Append([]string{"stdout", formatNotAvailable(calc.StdOutS3URI)})
	outputs.Append([]string{"stderr", formatNotAvailable(calc.StdErrorS3URI)})
	outputs.Append([]string{"result", formatNotAvailable(calc.ResultS3URI)})
	outputs.Render()

	if calc.StateChangeReason != "" {
		fmt.Fprintf(out, "\nstate change reason: %s\n", calc.StateChangeReason)
	}
	if calc.CodeBlock != "" {
		fmt.Fprintf(out, "\ncode:\n%s\n", calc.CodeBlock)
	}
}

func formatNotAvailable(s string) string {
	if s == "" {
		return "N.A."
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N.A."
	}
	return t.UTC().Format(time.RFC3339)
}
