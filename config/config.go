// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package config

import (
	"os"
	"time"

	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers"
)

const (
	DefaultAWSConnID         = "aws_default"
	DefaultPollInterval      = 15 * time.Second
	DefaultWaitForCompletion = true
	DefaultPokeInterval      = 60 * time.Second
	DefaultSensorTimeout     = 7 * 24 * time.Hour
)

const (
	pollIntervalEnv      = "ATHENA_SPARK_POLL_INTERVAL"
	waitForCompletionEnv = "ATHENA_SPARK_WAIT_FOR_COMPLETION"
	awsConnIDEnv         = "ATHENA_SPARK_AWS_CONN_ID"
	pokeIntervalEnv      = "ATHENA_SPARK_POKE_INTERVAL"
	sensorTimeoutEnv     = "ATHENA_SPARK_SENSOR_TIMEOUT"
	softFailEnv          = "ATHENA_SPARK_SOFT_FAIL"
	metricsPortEnv       = "ATHENA_SPARK_METRICS_PORT"
	logLevelEnv          = "ATHENA_SPARK_LOG_LEVEL"
	slackChannelEnv      = "SLACK_CHANNEL_ID"
)

type RunnerDefaults struct {
	PollInterval      time.Duration
	WaitForCompletion bool
	AWSConnID         string
}

type SensorDefaults struct {
	PokeInterval time.Duration
	Timeout      time.Duration
	SoftFail     bool
	AWSConnID    string
}

type AthenaSparkApp struct {
	Runner       RunnerDefaults
	Sensor       SensorDefaults
	MetricsPort  string
	SlackChannel string
	LogLevel     string
}

// DefaultApp is the configuration used when nothing is set in the environment.
func DefaultApp() AthenaSparkApp {
	return AthenaSparkApp{
		Runner: RunnerDefaults{
			PollInterval:      DefaultPollInterval,
			WaitForCompletion: DefaultWaitForCompletion,
			AWSConnID:         DefaultAWSConnID,
		},
		Sensor: SensorDefaults{
			PokeInterval: DefaultPokeInterval,
			Timeout:      DefaultSensorTimeout,
			AWSConnID:    DefaultAWSConnID,
		},
		LogLevel: "info",
	}
}

// Load reads the process-wide defaults from the environment. Anything set explicitly on a runner or
// sensor takes precedence over these.
func Load() (*AthenaSparkApp, error) {
	connID := helpers.GetEnv(awsConnIDEnv, DefaultAWSConnID)
	app := &AthenaSparkApp{
		Runner: RunnerDefaults{
			PollInterval:      helpers.GetEnvDuration(pollIntervalEnv, DefaultPollInterval),
			WaitForCompletion: helpers.GetEnvBool(waitForCompletionEnv, DefaultWaitForCompletion),
			AWSConnID:         connID,
		},
		Sensor: SensorDefaults{
			PokeInterval: helpers.GetEnvDuration(pokeIntervalEnv, DefaultPokeInterval),
			Timeout:      helpers.GetEnvDuration(sensorTimeoutEnv, DefaultSensorTimeout),
			SoftFail:     helpers.GetEnvBool(softFailEnv, false),
			AWSConnID:    connID,
		},
		MetricsPort:  helpers.GetEnv(metricsPortEnv, ""),
		SlackChannel: helpers.GetEnv(slackChannelEnv, ""),
		LogLevel:     helpers.GetEnv(logLevelEnv, "info"),
	}
	if err := app.validate(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *AthenaSparkApp) validate() error {
	if app.Runner.PollInterval <= 0 {
		return fferr.NewInvalidConfigEnv(pollIntervalEnv, os.Getenv(pollIntervalEnv), "a positive duration")
	}
	if app.Sensor.PokeInterval <= 0 {
		return fferr.NewInvalidConfigEnv(pokeIntervalEnv, os.Getenv(pokeIntervalEnv), "a positive duration")
	}
	if app.Sensor.Timeout <= 0 {
		return fferr.NewInvalidConfigEnv(sensorTimeoutEnv, os.Getenv(sensorTimeoutEnv), "a positive duration")
	}
	if app.Runner.AWSConnID == "" {
		return fferr.NewMissingConfigEnv(awsConnIDEnv)
	}
	return nil
}
