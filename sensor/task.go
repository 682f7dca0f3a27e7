// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package sensor

import (
	"context"

	"github.com/featureform/athenaspark/templating"
)

// Task runs an AthenaSparkSensor under a BaseSensor so it can be scheduled like any other task.
type Task struct {
	Sensor *AthenaSparkSensor
	Base   BaseSensor
}

func NewTask(s *AthenaSparkSensor, base BaseSensor) *Task {
	if base.Target == "" {
		base.Target = s.CalculationExecutionID
	}
	return &Task{Sensor: s, Base: base}
}

// Execute returns the calculation execution id once it has completed.
func (t *Task) Execute(ctx context.Context) (string, error) {
	if t.Base.Target == "" {
		t.Base.Target = t.Sensor.CalculationExecutionID
	}
	if err := t.Base.Run(ctx, t.Sensor); err != nil {
		return "", err
	}
	return t.Sensor.CalculationExecutionID, nil
}

// OnKill only stops polling. The calculation belongs to whoever submitted it.
func (t *Task) OnKill(ctx context.Context) {
	t.Sensor.logger.Infow("Sensor killed, leaving calculation running", "calculation-execution-id", t.Sensor.CalculationExecutionID)
}

func (t *Task) TemplateFields() []string {
	return t.Sensor.TemplateFields()
}

func (t *Task) RenderTemplateFields(ctx templating.Context) error {
	if err := t.Sensor.RenderTemplateFields(ctx); err != nil {
		return err
	}
	t.Base.Target = t.Sensor.CalculationExecutionID
	return nil
}
