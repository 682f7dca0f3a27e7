// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package sensor

import (
	"context"
	"errors"
	"fmt"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers/notifications"
	"github.com/featureform/athenaspark/logging"
	"github.com/featureform/athenaspark/metrics"
	"github.com/featureform/athenaspark/provider"
	"github.com/featureform/athenaspark/templating"
)

const calculationExecutionIDField = "calculation_execution_id"

// AthenaSparkSensor checks an already submitted calculation once per Poke.
type AthenaSparkSensor struct {
	CalculationExecutionID string
	AWSConnID              string

	hookFactory provider.HookFactory
	logger      logging.Logger
	metrics     metrics.CalculationMetrics
	notifier    notifications.Notifier
}

type Option func(*AthenaSparkSensor)

func WithHookFactory(factory provider.HookFactory) Option {
	return func(s *AthenaSparkSensor) { s.hookFactory = factory }
}

func WithLogger(logger logging.Logger) Option {
	return func(s *AthenaSparkSensor) { s.logger = logger }
}

func WithMetrics(m metrics.CalculationMetrics) Option {
	return func(s *AthenaSparkSensor) { s.metrics = m }
}

func WithNotifier(n notifications.Notifier) Option {
	return func(s *AthenaSparkSensor) { s.notifier = n }
}

func WithAWSConnID(connID string) Option {
	return func(s *AthenaSparkSensor) { s.AWSConnID = connID }
}

func NewAthenaSparkSensor(executionID string, opts ...Option) *AthenaSparkSensor {
	s := &AthenaSparkSensor{
		CalculationExecutionID: executionID,
		AWSConnID:              config.DefaultAWSConnID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger.SugaredLogger == nil {
		s.logger = logging.NewLogger("athena-spark-sensor")
	}
	if s.hookFactory == nil {
		s.hookFactory = provider.NewConnectionHookFactory(s.logger)
	}
	if s.metrics == nil {
		s.metrics = &metrics.NoOpMetricsHandler{}
	}
	if s.notifier == nil {
		s.notifier = notifications.NoOpNotifier{}
	}
	if s.AWSConnID == "" {
		s.AWSConnID = config.DefaultAWSConnID
	}
	return s
}

// Poke reports true once the calculation is COMPLETED and false while it is in any other
// non-failure state. A failure state is returned as a *fferr.CalculationFailedError.
func (s *AthenaSparkSensor) Poke(ctx context.Context) (bool, error) {
	if s.CalculationExecutionID == "" {
		return false, fferr.NewInvalidArgumentErrorf("calculation_execution_id must not be empty")
	}
	logger := s.logger.WithCalculation("", s.CalculationExecutionID).WithConnection(s.AWSConnID)
	if id := logging.GetRequestIDFromContext(ctx); id != "" {
		logger = logger.WithRequestID(id)
	}
	hook, err := s.hookFactory(ctx, s.AWSConnID)
	if err != nil {
		logger.Errorw("Could not create Athena Spark hook", "error", err)
		return false, err
	}
	state, err := hook.CheckCalculationStatus(ctx, s.CalculationExecutionID)
	if err != nil {
		s.metrics.ObservePoke(metrics.PokeError)
		if ctx.Err() == nil {
			logger.Errorw("Could not check calculation status", "error", err)
			if notifyErr := s.notifier.ErrorNotification(s.CalculationExecutionID, err.Error()); notifyErr != nil {
				logger.Warnw("Could not send calculation error notification", "error", notifyErr)
			}
		}
		return false, err
	}
	logger.Infof("Calculation %s state is: %s", s.CalculationExecutionID, state)

	if hook.FailureStates().Contains(state) {
		s.metrics.ObservePoke(metrics.PokeError)
		msg := fmt.Sprintf("Calculation %s failed with state: %s", s.CalculationExecutionID, state)
		s.notify(logger, state, msg)
		return false, fferr.NewCalculationFailedError(s.CalculationExecutionID, state, errors.New(msg))
	}
	// Exact match on purpose: other terminal states that are not failures keep the sensor waiting.
	if state == provider.CalculationCompleted {
		s.metrics.ObservePoke(metrics.PokeReady)
		s.notify(logger, state, "")
		return true, nil
	}
	s.metrics.ObservePoke(metrics.PokeNotReady)
	return false, nil
}

func (s *AthenaSparkSensor) notify(logger logging.Logger, state, errorMessage string) {
	if err := s.notifier.ChangeNotification(s.CalculationExecutionID, "", state, errorMessage); err != nil {
		logger.Warnw("Could not send calculation notification", "error", err)
	}
}

func (s *AthenaSparkSensor) TemplateFields() []string {
	return []string{calculationExecutionIDField}
}

func (s *AthenaSparkSensor) RenderTemplateFields(ctx templating.Context) error {
	return templating.RenderAll(map[string]*string{
		calculationExecutionIDField: &s.CalculationExecutionID,
	}, ctx)
}
