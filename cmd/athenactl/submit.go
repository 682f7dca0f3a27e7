// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/runner"
	"github.com/featureform/athenaspark/runner/worker"
	"github.com/featureform/athenaspark/templating"
)

func newSubmitCommand(c *cli) *cobra.Command {
	var (
		sessionID    string
		code         string
		codeFile     string
		outputFile   string
		logicalDate  string
		noWait       bool
		pollInterval time.Duration
		vars         []string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a code block to an Athena Spark session",
		Long: `Submit a code block to an Athena Spark session and wait for it to finish.
The code block and session id may use templates, e.g. {{ .ds }} or {{ .params.table }} with --var table=events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codeBlock, err := readCode(code, codeFile)
			if err != nil {
				return err
			}
			params, err := parseVars(vars)
			if err != nil {
				return err
			}
			wait := c.app.Runner.WaitForCompletion
			if cmd.Flags().Changed("no-wait") {
				wait = !noWait
			}
			interval := c.app.Runner.PollInterval
			if cmd.Flags().Changed("poll-interval") {
				interval = pollInterval
			}

			r := runner.NewAthenaSparkRunner(sessionID, codeBlock,
				runner.WithHookFactory(c.hookFactory),
				runner.WithLogger(c.logger),
				runner.WithMetrics(c.metrics),
				runner.WithNotifier(c.notifier),
				runner.WithWaitForCompletion(wait),
				runner.WithPollInterval(interval),
				runner.WithAWSConnID(c.connID()),
			)
			date, err := templating.ParseLogicalDate(logicalDate)
			if err != nil {
				return err
			}
			runID := "manual__" + uuid.New().String()
			if err := r.RenderTemplateFields(templating.NewContext(date, runID, params)); err != nil {
				return err
			}
			executionID, err := r.Execute(cmd.Context())
			if err != nil {
				return err
			}
			c.printf("%s\n", executionID)
			if outputFile != "" {
				return worker.WriteOutput(outputFile, executionID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Athena Spark session to run the code block in")
	cmd.Flags().StringVar(&code, "code", "", "Code block to run")
	cmd.Flags().StringVar(&codeFile, "code-file", "", "Read the code block from this file")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return as soon as the calculation is submitted")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Time between status checks (default from ATHENA_SPARK_POLL_INTERVAL or 15s)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template parameter as key=value, available as {{ .params.key }}")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Write {\"return_value\": <id>} to this file")
	cmd.Flags().StringVar(&logicalDate, "logical-date", "", "Date templates see as {{ .ds }} (default now)")
	cmd.MarkFlagRequired("session-id")
	return cmd
}

func readCode(code, codeFile string) (string, error) {
	if code != "" && codeFile != "" {
		return "", fferr.NewInvalidArgumentErrorf("--code and --code-file are mutually exclusive")
	}
	if codeFile == "" {
		return code, nil
	}
	data, err := os.ReadFile(codeFile)
	if err != nil {
		return "", fferr.NewInvalidArgumentError(err)
	}
	return string(data), nil
}

func parseVars(vars []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(vars))
	for _, v := range vars {
		key, value, found := strings.Cut(v, "=")
		if !found || key == "" {
			return nil, fferr.NewInvalidArgumentErrorf("template variable must look like key=value, got %q", v)
		}
		params[key] = value
	}
	return params, nil
}
