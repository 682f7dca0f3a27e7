// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package provider

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Calculation states reported by Athena for Spark calculation executions.
const (
	CalculationCreating  = "CREATING"
	CalculationCreated   = "CREATED"
	CalculationQueued    = "QUEUED"
	CalculationRunning   = "RUNNING"
	CalculationCanceling = "CANCELING"
	CalculationCanceled  = "CANCELED"
	CalculationCompleted = "COMPLETED"
	CalculationFailed    = "FAILED"
)

// DefaultTerminalStates are the states after which Athena never changes a calculation again.
func DefaultTerminalStates() mapset.Set[string] {
	return mapset.NewSet[string](CalculationCompleted, CalculationFailed, CalculationCanceled)
}

// DefaultFailureStates is the subset of DefaultTerminalStates that means the calculation did not succeed.
func DefaultFailureStates() mapset.Set[string] {
	return mapset.NewSet[string](CalculationFailed, CalculationCanceled)
}

// AthenaSparkHook is the remote-execution client used by the runner and the sensor. Errors returned
// by an implementation are handed back to callers untouched.
type AthenaSparkHook interface {
	StartCalculationExecution(ctx context.Context, sessionID, codeBlock string) (string, error)
	CheckCalculationStatus(ctx context.Context, executionID string) (string, error)
	StopCalculationExecution(ctx context.Context, executionID string) error
	TerminalStates() mapset.Set[string]
	FailureStates() mapset.Set[string]
}

// HookFactory builds a hook for an aws_conn_id. Each operation asks for its own hook.
type HookFactory func(ctx context.Context, connID string) (AthenaSparkHook, error)

func StaticHookFactory(hook AthenaSparkHook) HookFactory {
	return func(ctx context.Context, connID string) (AthenaSparkHook, error) {
		return hook, nil
	}
}

type Calculation struct {
	ExecutionID        string
	SessionID          string
	CodeBlock          string
	Description        string
	State              string
	StateChangeReason  string
	WorkingDirectory   string
	ResultS3URI        string
	ResultType         string
	StdOutS3URI        string
	StdErrorS3URI      string
	DpuExecutionMillis int64
	Progress           string
	SubmittedAt        time.Time
	CompletedAt        time.Time
}

func (c Calculation) IsTerminal(terminal mapset.Set[string]) bool {
	return terminal.Contains(c.State)
}
