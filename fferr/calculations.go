// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package fferr

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

// NewCalculationFailedError is returned when a calculation reaches one of the hook's failure states.
// The state is always part of the message so callers that only print Error() still see it.
func NewCalculationFailedError(executionID, state string, err error) *CalculationFailedError {
	if err == nil {
		err = fmt.Errorf("calculation %s failed with state: %s", executionID, state)
	}
	baseError := newBaseError(err, CALCULATION_FAILED, codes.FailedPrecondition)
	baseError.AddDetail("Calculation_Execution_ID", executionID)
	baseError.AddDetail("State", state)

	return &CalculationFailedError{
		baseError,
	}
}

type CalculationFailedError struct {
	baseError
}

func (e *CalculationFailedError) State() string {
	return e.details["state"]
}

func (e *CalculationFailedError) ExecutionID() string {
	return e.details["calculation_execution_id"]
}

func NewCalculationDoesNotExistError(executionID string, err error) *CalculationDoesNotExistError {
	if err == nil {
		err = fmt.Errorf("calculation does not exist")
	}
	baseError := newBaseError(err, CALCULATION_DOES_NOT_EXIST, codes.NotFound)
	baseError.AddDetail("Calculation_Execution_ID", executionID)

	return &CalculationDoesNotExistError{
		baseError,
	}
}

type CalculationDoesNotExistError struct {
	baseError
}
