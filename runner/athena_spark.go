// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers/notifications"
	"github.com/featureform/athenaspark/logging"
	"github.com/featureform/athenaspark/metrics"
	"github.com/featureform/athenaspark/provider"
	"github.com/featureform/athenaspark/templating"
)

const (
	sessionIDField = "session_id"
	codeBlockField = "code_block"
)

// AthenaSparkRunner submits a code block to an Athena Spark session and, unless told not to,
// blocks until the calculation reaches a terminal state.
type AthenaSparkRunner struct {
	SessionID         string
	CodeBlock         string
	WaitForCompletion bool
	PollInterval      time.Duration
	AWSConnID         string

	hookFactory provider.HookFactory
	clock       clock.Clock
	logger      logging.Logger
	metrics     metrics.CalculationMetrics
	notifier    notifications.Notifier

	mu            sync.Mutex
	executionID   string
	stopRequested bool
}

type Option func(*AthenaSparkRunner)

func WithHookFactory(factory provider.HookFactory) Option {
	return func(r *AthenaSparkRunner) { r.hookFactory = factory }
}

func WithClock(c clock.Clock) Option {
	return func(r *AthenaSparkRunner) { r.clock = c }
}

func WithLogger(logger logging.Logger) Option {
	return func(r *AthenaSparkRunner) { r.logger = logger }
}

func WithMetrics(m metrics.CalculationMetrics) Option {
	return func(r *AthenaSparkRunner) { r.metrics = m }
}

func WithNotifier(n notifications.Notifier) Option {
	return func(r *AthenaSparkRunner) { r.notifier = n }
}

func WithPollInterval(interval time.Duration) Option {
	return func(r *AthenaSparkRunner) { r.PollInterval = interval }
}

func WithWaitForCompletion(wait bool) Option {
	return func(r *AthenaSparkRunner) { r.WaitForCompletion = wait }
}

func WithAWSConnID(connID string) Option {
	return func(r *AthenaSparkRunner) { r.AWSConnID = connID }
}

func NewAthenaSparkRunner(sessionID, codeBlock string, opts ...Option) *AthenaSparkRunner {
	r := &AthenaSparkRunner{
		SessionID:         sessionID,
		CodeBlock:         codeBlock,
		WaitForCompletion: config.DefaultWaitForCompletion,
		PollInterval:      config.DefaultPollInterval,
		AWSConnID:         config.DefaultAWSConnID,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.setDefaults()
	return r
}

func (r *AthenaSparkRunner) setDefaults() {
	if r.logger.SugaredLogger == nil {
		r.logger = logging.NewLogger("athena-spark-runner")
	}
	if r.hookFactory == nil {
		r.hookFactory = provider.NewConnectionHookFactory(r.logger)
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.metrics == nil {
		r.metrics = &metrics.NoOpMetricsHandler{}
	}
	if r.notifier == nil {
		r.notifier = notifications.NoOpNotifier{}
	}
	if r.AWSConnID == "" {
		r.AWSConnID = config.DefaultAWSConnID
	}
}

func (r *AthenaSparkRunner) validate() error {
	if r.SessionID == "" {
		return fferr.NewInvalidArgumentErrorf("session_id must not be empty")
	}
	if r.CodeBlock == "" {
		return fferr.NewInvalidArgumentErrorf("code_block must not be empty")
	}
	if r.PollInterval <= 0 {
		return fferr.NewInvalidArgumentErrorf("poll interval must be positive, got %s", r.PollInterval)
	}
	return nil
}

// Execute returns the calculation execution id. Errors from the hook are returned as is; a
// calculation that ends in a failure state yields a *fferr.CalculationFailedError. If ctx is
// cancelled while waiting, a stop is requested for the calculation and ctx.Err() is returned.
func (r *AthenaSparkRunner) Execute(ctx context.Context) (string, error) {
	r.setDefaults()
	if err := r.validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger := r.logger.WithCalculation(r.SessionID, "").WithConnection(r.AWSConnID)
	if id := logging.GetRequestIDFromContext(ctx); id != "" {
		logger = logger.WithRequestID(id)
	}

	hook, err := r.hookFactory(ctx, r.AWSConnID)
	if err != nil {
		logger.Errorw("Could not create Athena Spark hook", "error", err)
		return "", err
	}
	executionID, err := hook.StartCalculationExecution(ctx, r.SessionID, r.CodeBlock)
	if err != nil {
		logger.Errorw("Could not submit calculation", "error", err)
		return "", err
	}
	r.setExecutionID(executionID)
	logger = logger.WithCalculation("", executionID)
	logger.Infow("Submitted Athena Spark calculation")

	if !r.WaitForCompletion {
		return executionID, nil
	}
	if err := r.waitForCompletion(ctx, hook, executionID, logger); err != nil {
		return "", err
	}
	return executionID, nil
}

func (r *AthenaSparkRunner) waitForCompletion(ctx context.Context, hook provider.AthenaSparkHook, executionID string, logger logging.Logger) error {
	terminal := hook.TerminalStates()
	failure := hook.FailureStates()
	observer := r.metrics.BeginObservingCalculation(r.SessionID)

	logger.Info("Polling for calculation completion...")
	for {
		state, err := hook.CheckCalculationStatus(ctx, executionID)
		if err != nil {
			observer.SetError()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r.killed(ctx, logger, ctxErr)
			}
			logger.Errorw("Could not check calculation status", "error", err)
			r.notifyError(logger, executionID, err)
			return err
		}
		observer.ObserveState(state)
		logger.Infof("Current calculation state is: %s", state)

		if terminal.Contains(state) {
			if failure.Contains(state) {
				observer.SetError()
				msg := fmt.Sprintf("Athena Spark job failed or was canceled. Final state: %s", state)
				r.notify(logger, executionID, state, msg)
				return fferr.NewCalculationFailedError(executionID, state, errors.New(msg))
			}
			observer.Finish()
			logger.Info("Athena Spark calculation completed successfully.")
			r.notify(logger, executionID, state, "")
			return nil
		}

		select {
		case <-ctx.Done():
			observer.SetError()
			return r.killed(ctx, logger, ctx.Err())
		case <-r.clock.After(r.PollInterval):
		}
	}
}

func (r *AthenaSparkRunner) killed(ctx context.Context, logger logging.Logger, cause error) error {
	logger.Warnw("Context done while waiting for calculation", "error", cause)
	r.OnKill(context.WithoutCancel(ctx))
	return cause
}

// OnKill requests a stop for the submitted calculation. It does nothing before submission and
// sends at most one stop per submission. Stop failures are logged and swallowed.
func (r *AthenaSparkRunner) OnKill(ctx context.Context) {
	r.setDefaults()
	r.mu.Lock()
	executionID := r.executionID
	if executionID == "" {
		r.mu.Unlock()
		r.logger.Infow("Task killed before a calculation was submitted, nothing to cancel", "session-id", r.SessionID)
		return
	}
	if r.stopRequested {
		r.mu.Unlock()
		return
	}
	r.stopRequested = true
	r.mu.Unlock()

	logger := r.logger.WithCalculation(r.SessionID, executionID).WithConnection(r.AWSConnID)
	logger.Info("Task killed. Canceling Athena Spark job.")
	hook, err := r.hookFactory(ctx, r.AWSConnID)
	if err != nil {
		r.metrics.ObserveStop(err)
		logger.Errorw("Could not create Athena Spark hook to stop calculation", "error", err)
		return
	}
	err = hook.StopCalculationExecution(ctx, executionID)
	r.metrics.ObserveStop(err)
	if err != nil {
		logger.Errorw("Could not stop calculation", "error", err)
	}
}

// Result is the execution id of the most recent submission, empty before the first one.
func (r *AthenaSparkRunner) Result() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executionID
}

func (r *AthenaSparkRunner) setExecutionID(executionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executionID = executionID
	r.stopRequested = false
}

func (r *AthenaSparkRunner) notify(logger logging.Logger, executionID, state, errorMessage string) {
	if err := r.notifier.ChangeNotification(executionID, r.SessionID, state, errorMessage); err != nil {
		logger.Warnw("Could not send calculation notification", "error", err)
	}
}

func (r *AthenaSparkRunner) notifyError(logger logging.Logger, executionID string, cause error) {
	if err := r.notifier.ErrorNotification(executionID, cause.Error()); err != nil {
		logger.Warnw("Could not send calculation error notification", "error", err)
	}
}

func (r *AthenaSparkRunner) TemplateFields() []string {
	return []string{sessionIDField, codeBlockField}
}

func (r *AthenaSparkRunner) RenderTemplateFields(ctx templating.Context) error {
	return templating.RenderAll(map[string]*string{
		sessionIDField: &r.SessionID,
		codeBlockField: &r.CodeBlock,
	}, ctx)
}
