// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package runner

import (
	"encoding/json"
	"time"

	"k8s.io/utils/clock"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers/notifications"
	"github.com/featureform/athenaspark/logging"
	"github.com/featureform/athenaspark/metrics"
	"github.com/featureform/athenaspark/provider"
	"github.com/featureform/athenaspark/sensor"
	"github.com/featureform/athenaspark/types"
)

// AthenaSparkRunnerConfig is the serialized form of an AthenaSparkRunner. Unset optional fields
// fall back to the process defaults.
type AthenaSparkRunnerConfig struct {
	SessionID         string `json:"session_id"`
	CodeBlock         string `json:"code_block"`
	WaitForCompletion *bool  `json:"wait_for_completion,omitempty"`
	// PollInterval is in seconds.
	PollInterval int    `json:"poll_interval,omitempty"`
	AWSConnID    string `json:"aws_conn_id,omitempty"`
}

func (c *AthenaSparkRunnerConfig) Serialize() (Config, error) {
	config, err := json.Marshal(c)
	if err != nil {
		return nil, fferr.NewInternalError(err)
	}
	return config, nil
}

func (c *AthenaSparkRunnerConfig) Deserialize(config Config) error {
	if err := json.Unmarshal(config, c); err != nil {
		return fferr.NewInvalidArgumentError(err)
	}
	if c.PollInterval < 0 {
		return fferr.NewInvalidArgumentErrorf("poll_interval must be positive, got %d", c.PollInterval)
	}
	return nil
}

type AthenaSparkSensorConfig struct {
	CalculationExecutionID string `json:"calculation_execution_id"`
	AWSConnID              string `json:"aws_conn_id,omitempty"`
	// PokeInterval and Timeout are in seconds.
	PokeInterval int   `json:"poke_interval,omitempty"`
	Timeout      int   `json:"timeout,omitempty"`
	SoftFail     *bool `json:"soft_fail,omitempty"`
}

func (c *AthenaSparkSensorConfig) Serialize() (Config, error) {
	config, err := json.Marshal(c)
	if err != nil {
		return nil, fferr.NewInternalError(err)
	}
	return config, nil
}

func (c *AthenaSparkSensorConfig) Deserialize(config Config) error {
	if err := json.Unmarshal(config, c); err != nil {
		return fferr.NewInvalidArgumentError(err)
	}
	if c.PokeInterval < 0 || c.Timeout < 0 {
		return fferr.NewInvalidArgumentErrorf("poke_interval and timeout must be positive")
	}
	return nil
}

// Dependencies are the collaborators handed to every task a factory builds.
type Dependencies struct {
	HookFactory provider.HookFactory
	Logger      logging.Logger
	Metrics     metrics.CalculationMetrics
	Notifier    notifications.Notifier
	Clock       clock.Clock
	App         config.AthenaSparkApp
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger.SugaredLogger == nil {
		d.Logger = logging.NewLogger("athena-spark")
	}
	if d.HookFactory == nil {
		d.HookFactory = provider.NewConnectionHookFactory(d.Logger)
	}
	if d.App.Runner.PollInterval <= 0 && d.App.Sensor.PokeInterval <= 0 {
		d.App = config.DefaultApp()
	}
	return d
}

func AthenaSparkRunnerFactory(deps Dependencies) TaskFactory {
	deps = deps.withDefaults()
	return func(c Config) (types.Task, error) {
		runnerConfig := &AthenaSparkRunnerConfig{}
		if err := runnerConfig.Deserialize(c); err != nil {
			return nil, err
		}
		defaults := deps.App.Runner
		wait := defaults.WaitForCompletion
		if runnerConfig.WaitForCompletion != nil {
			wait = *runnerConfig.WaitForCompletion
		}
		interval := defaults.PollInterval
		if runnerConfig.PollInterval > 0 {
			interval = time.Duration(runnerConfig.PollInterval) * time.Second
		}
		connID := defaults.AWSConnID
		if runnerConfig.AWSConnID != "" {
			connID = runnerConfig.AWSConnID
		}
		return NewAthenaSparkRunner(runnerConfig.SessionID, runnerConfig.CodeBlock,
			WithHookFactory(deps.HookFactory),
			WithLogger(deps.Logger),
			WithMetrics(deps.Metrics),
			WithNotifier(deps.Notifier),
			WithClock(deps.Clock),
			WithWaitForCompletion(wait),
			WithPollInterval(interval),
			WithAWSConnID(connID),
		), nil
	}
}

func AthenaSparkSensorFactory(deps Dependencies) TaskFactory {
	deps = deps.withDefaults()
	return func(c Config) (types.Task, error) {
		sensorConfig := &AthenaSparkSensorConfig{}
		if err := sensorConfig.Deserialize(c); err != nil {
			return nil, err
		}
		defaults := deps.App.Sensor
		connID := defaults.AWSConnID
		if sensorConfig.AWSConnID != "" {
			connID = sensorConfig.AWSConnID
		}
		base := sensor.NewBaseSensor(defaults, sensorConfig.CalculationExecutionID)
		if sensorConfig.PokeInterval > 0 {
			base.PokeInterval = time.Duration(sensorConfig.PokeInterval) * time.Second
		}
		if sensorConfig.Timeout > 0 {
			base.Timeout = time.Duration(sensorConfig.Timeout) * time.Second
		}
		if sensorConfig.SoftFail != nil {
			base.SoftFail = *sensorConfig.SoftFail
		}
		s := sensor.NewAthenaSparkSensor(sensorConfig.CalculationExecutionID,
			sensor.WithHookFactory(deps.HookFactory),
			sensor.WithLogger(deps.Logger),
			sensor.WithMetrics(deps.Metrics),
			sensor.WithNotifier(deps.Notifier),
			sensor.WithAWSConnID(connID),
		)
		return sensor.NewTask(s, base), nil
	}
}

// RegisterAthenaSparkFactories registers the runner and sensor under their RunnerNames.
func RegisterAthenaSparkFactories(deps Dependencies) error {
	if err := RegisterFactory(string(ATHENA_SPARK_CALCULATION), AthenaSparkRunnerFactory(deps)); err != nil {
		return err
	}
	return RegisterFactory(string(ATHENA_SPARK_SENSOR), AthenaSparkSensorFactory(deps))
}
