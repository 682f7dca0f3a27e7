// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers/notifications"
	"github.com/featureform/athenaspark/logging"
	"github.com/featureform/athenaspark/metrics"
	"github.com/featureform/athenaspark/provider"
)

type calculationInspector interface {
	Describe(ctx context.Context, executionID string) (*provider.Calculation, error)
	FetchOutput(ctx context.Context, s3URI string) ([]byte, error)
}

type inspectorFactory func(ctx context.Context, connID string) (calculationInspector, error)

type cli struct {
	v   *viper.Viper
	out io.Writer
	mu  sync.Mutex

	app         *config.AthenaSparkApp
	logger      logging.Logger
	hookFactory provider.HookFactory
	inspector   inspectorFactory
	metrics     metrics.CalculationMetrics
	notifier    notifications.Notifier
}

func NewCommand() *cobra.Command {
	return newCommand(&cli{v: viper.New(), out: os.Stdout})
}

func newCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "athenactl",
		Short: "athenactl submits and watches Athena Spark calculations",
		Long: `athenactl is the command-line tool for running code blocks on Athena Spark sessions.
It supports submitting calculations, waiting on existing ones, stopping them and reading their output.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
	}

	cmd.PersistentFlags().String("aws-conn-id", config.DefaultAWSConnID, "Connection id resolved from ATHENA_SPARK_CONN_<ID>")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("env-file", "", "Load environment variables from this file first")
	c.v.BindPFlags(cmd.PersistentFlags())
	c.v.SetEnvPrefix("ATHENA_SPARK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	cmd.AddCommand(newSubmitCommand(c))
	cmd.AddCommand(newSenseCommand(c))
	cmd.AddCommand(newStopCommand(c))
	cmd.AddCommand(newDescribeCommand(c))
	cmd.AddCommand(newLogsCommand(c))
	cmd.AddCommand(newWorkerCommand(c))

	return cmd
}

func (c *cli) init() error {
	if envFile := c.v.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fferr.NewInvalidConfigf("could not load env file %s: %v", envFile, err)
		}
	}
	app, err := config.Load()
	if err != nil {
		return err
	}
	c.app = app
	if c.logger.SugaredLogger == nil {
		c.logger = logging.NewLoggerWithLevel("athenactl", c.v.GetString("log-level"))
	}
	if c.hookFactory == nil {
		c.hookFactory = provider.NewConnectionHookFactory(c.logger)
	}
	if c.inspector == nil {
		c.inspector = c.connectionInspector
	}
	if c.metrics == nil {
		c.metrics = &metrics.NoOpMetricsHandler{}
		if app.MetricsPort != "" {
			promMetrics := metrics.NewMetrics("athena_spark")
			c.metrics = promMetrics
			go func() {
				if err := promMetrics.ExposePort(app.MetricsPort); err != nil {
					c.logger.Errorw("Metrics server stopped", "error", err)
				}
			}()
		}
	}
	if c.notifier == nil {
		c.notifier = notifications.NoOpNotifier{}
		if app.SlackChannel != "" {
			c.notifier = notifications.NewSlackNotifier(app.SlackChannel, c.logger)
		}
	}
	return nil
}

func (c *cli) connID() string {
	if connID := c.v.GetString("aws-conn-id"); connID != "" {
		return connID
	}
	return c.app.Runner.AWSConnID
}

func (c *cli) connectionInspector(ctx context.Context, connID string) (calculationInspector, error) {
	athenaConfig, err := config.LookupConnection(connID)
	if err != nil {
		return nil, err
	}
	hook, err := provider.NewAthenaHook(ctx, athenaConfig, c.logger.WithConnection(connID))
	if err != nil {
		return nil, err
	}
	return hook, nil
}

func (c *cli) printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

// exitCode lets shell callers tell a bad invocation and a sensor timeout apart from a failed calculation.
func exitCode(err error) int {
	var typed fferr.GRPCError
	if !errors.As(err, &typed) {
		return 1
	}
	switch typed.GetCode() {
	case codes.InvalidArgument:
		return 2
	case codes.DeadlineExceeded:
		return 124
	case codes.Aborted:
		return 99
	default:
		return 1
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := 0
	if err := NewCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		code = exitCode(err)
	}
	stop()
	os.Exit(code)
}
