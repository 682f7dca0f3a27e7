// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package fferr

import (
	"fmt"

	"github.com/rotisserie/eris"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// PROVIDERS:
	EXECUTION_ERROR  = "Execution Error"
	CONNECTION_ERROR = "Connection Error"

	// CALCULATIONS:
	CALCULATION_FAILED         = "Calculation Failed"
	CALCULATION_DOES_NOT_EXIST = "Calculation Does Not Exist"

	// SENSORS:
	SENSOR_TIMEOUT = "Sensor Timeout"
	TASK_SKIPPED   = "Task Skipped"

	// MISCELLANEOUS:
	INTERNAL_ERROR   = "Internal Error"
	INVALID_ARGUMENT = "Invalid Argument"
	INVALID_CONFIG   = "Invalid Config"
)

type JSONStackTrace map[string]interface{}

type GRPCError interface {
	GetCode() codes.Code
	GetType() string
	ToErr() error
	AddDetail(key, value string)
	AddDetails(keysAndValues ...interface{})
	Details() map[string]string
	Stack() JSONStackTrace
	Error() string
}

// FromErr rebuilds a typed error from a gRPC status that was produced by ToErr.
func FromErr(err error) GRPCError {
	// If the error is nil, then simply pass it through to
	// avoid having to check for nil errors at the call site
	if err == nil {
		return nil
	}
	if grpcErr, ok := err.(GRPCError); ok {
		return grpcErr
	}
	st, ok := status.FromError(err)
	if !ok {
		return NewInternalError(err)
	}
	var grpcError GRPCError
	for _, detail := range st.Details() {
		errorInfo, ok := detail.(*errdetails.ErrorInfo)
		if !ok {
			continue
		}
		details := errorInfo.Metadata
		if details == nil {
			details = map[string]string{}
		}
		base := baseError{
			code:      st.Code(),
			errorType: errorInfo.Reason,
			GenericError: GenericError{
				msg:     st.Message(),
				err:     eris.New(st.Message()),
				details: details,
			},
		}
		switch errorInfo.Reason {
		case EXECUTION_ERROR:
			grpcError = &ExecutionError{base}
		case CONNECTION_ERROR:
			grpcError = &ConnectionError{base}
		case CALCULATION_FAILED:
			grpcError = &CalculationFailedError{base}
		case CALCULATION_DOES_NOT_EXIST:
			grpcError = &CalculationDoesNotExistError{base}
		case SENSOR_TIMEOUT:
			grpcError = &SensorTimeoutError{base}
		case TASK_SKIPPED:
			grpcError = &SkippedError{base}
		case INVALID_ARGUMENT:
			grpcError = &InvalidArgumentError{base}
		case INVALID_CONFIG:
			grpcError = &InvalidConfigError{base}
		default:
			grpcError = &InternalError{base}
		}
	}
	if grpcError == nil {
		return NewInternalError(err)
	}
	return grpcError
}

func newBaseError(err error, errorType string, code codes.Code) baseError {
	if err == nil {
		err = fmt.Errorf("initial error")
	}
	genericError := NewGenericError(err)

	return baseError{
		code:         code,
		errorType:    errorType,
		GenericError: genericError,
	}
}

type baseError struct {
	code      codes.Code
	errorType string
	GenericError
}

func (e *baseError) GetCode() codes.Code {
	return e.code
}

func (e *baseError) GetType() string {
	return e.errorType
}

func (e *baseError) ToErr() error {
	st := status.New(e.code, e.msg)
	ef := &errdetails.ErrorInfo{
		Reason:   e.errorType,
		Metadata: e.details,
	}
	statusWithDetails, err := st.WithDetails(ef)
	if err == nil {
		return statusWithDetails.Err()
	}
	return st.Err()
}

func (e *baseError) AddDetail(key, value string) {
	e.GenericError.AddDetail(key, value)
}

// AddDetails takes alternating keys and values, the same shape zap's Infow takes.
func (e *baseError) AddDetails(keysAndValues ...interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		e.GenericError.AddDetail(fmt.Sprint(keysAndValues[i]), fmt.Sprint(keysAndValues[i+1]))
	}
}

func (e *baseError) AddFixSuggestion(suggestion string) {
	e.GenericError.AddDetail("fix_suggestion", suggestion)
}

func (e *baseError) Error() string {
	return e.GenericError.Error()
}
