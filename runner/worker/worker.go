// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package worker

import (
	"context"
	"encoding/json"
	"os"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers/notifications"
	"github.com/featureform/athenaspark/logging"
	"github.com/featureform/athenaspark/metrics"
	"github.com/featureform/athenaspark/runner"
	"github.com/featureform/athenaspark/templating"
	"github.com/featureform/athenaspark/types"
)

const (
	configEnv       = "CONFIG"
	nameEnv         = "NAME"
	templateVarsEnv = "TEMPLATE_VARS"
	outputPathEnv   = "OUTPUT_PATH"
)

// TemplateVars is the JSON shape of TEMPLATE_VARS.
type TemplateVars struct {
	LogicalDate string                 `json:"logical_date"`
	RunID       string                 `json:"run_id"`
	Params      map[string]interface{} `json:"params"`
}

// Output is written to OUTPUT_PATH so whatever scheduled the worker can pick up the result.
type Output struct {
	ReturnValue string `json:"return_value"`
}

// CreateAndRun builds collaborators from the environment and runs the task named by NAME.
func CreateAndRun(ctx context.Context) error {
	app, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewLoggerWithLevel("athena-spark-worker", app.LogLevel)
	deps := runner.Dependencies{
		Logger:   logger,
		App:      *app,
		Metrics:  &metrics.NoOpMetricsHandler{},
		Notifier: notifications.NoOpNotifier{},
	}
	if app.MetricsPort != "" {
		promMetrics := metrics.NewMetrics("athena_spark")
		deps.Metrics = promMetrics
		go func() {
			if err := promMetrics.ExposePort(app.MetricsPort); err != nil {
				logger.Errorw("Metrics server stopped", "error", err)
			}
		}()
	}
	if app.SlackChannel != "" {
		deps.Notifier = notifications.NewSlackNotifier(app.SlackChannel, logger)
	}
	return Run(ctx, deps)
}

func Run(ctx context.Context, deps runner.Dependencies) error {
	logger := deps.Logger
	if logger.SugaredLogger == nil {
		logger = logging.NewLogger("athena-spark-worker")
		deps.Logger = logger
	}
	taskConfig, ok := os.LookupEnv(configEnv)
	if !ok {
		return fferr.NewMissingConfigEnv(configEnv)
	}
	name, ok := os.LookupEnv(nameEnv)
	if !ok {
		return fferr.NewMissingConfigEnv(nameEnv)
	}
	logger = logger.WithValues(map[string]interface{}{"task-name": name})
	_, ctx, logger = logger.InitializeRequestID(ctx)
	logger.Debugw("Creating task", "config", taskConfig)
	if err := registerFactories(deps); err != nil {
		return err
	}
	task, err := runner.Create(name, []byte(taskConfig))
	if err != nil {
		return err
	}
	if err := renderTemplates(task); err != nil {
		return err
	}
	result, err := task.Execute(ctx)
	if err != nil {
		logger.Errorw("Task failed", "error", err)
		return err
	}
	logger.Infow("Task finished", "return_value", result)
	if path, ok := os.LookupEnv(outputPathEnv); ok && path != "" {
		return WriteOutput(path, result)
	}
	return nil
}

func registerFactories(deps runner.Dependencies) error {
	if runner.Registered(string(runner.ATHENA_SPARK_CALCULATION)) {
		return nil
	}
	return runner.RegisterAthenaSparkFactories(deps)
}

func renderTemplates(task types.Task) error {
	raw, ok := os.LookupEnv(templateVarsEnv)
	if !ok || raw == "" {
		return nil
	}
	templated, ok := task.(types.TemplatedTask)
	if !ok {
		return fferr.NewInvalidArgumentErrorf("%s set but task does not support templating", templateVarsEnv)
	}
	vars := TemplateVars{}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return fferr.NewInvalidConfigEnv(templateVarsEnv, raw, "a JSON object with logical_date, run_id and params")
	}
	logicalDate, err := templating.ParseLogicalDate(vars.LogicalDate)
	if err != nil {
		return err
	}
	return templated.RenderTemplateFields(templating.NewContext(logicalDate, vars.RunID, vars.Params))
}

// WriteOutput stores a task's return value as {"return_value": ...}.
func WriteOutput(path, result string) error {
	data, err := json.Marshal(Output{ReturnValue: result})
	if err != nil {
		return fferr.NewInternalError(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fferr.NewInternalError(err)
	}
	return nil
}
