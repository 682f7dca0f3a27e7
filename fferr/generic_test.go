package fferr

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func setErrorType(err baseError, errorType string) error {
	switch errorType {
	case EXECUTION_ERROR:
		return &ExecutionError{err}
	case CONNECTION_ERROR:
		return &ConnectionError{err}
	case CALCULATION_FAILED:
		return &CalculationFailedError{err}
	case CALCULATION_DOES_NOT_EXIST:
		return &CalculationDoesNotExistError{err}
	case SENSOR_TIMEOUT:
		return &SensorTimeoutError{err}
	case TASK_SKIPPED:
		return &SkippedError{err}
	case INTERNAL_ERROR:
		return &InternalError{err}
	case INVALID_ARGUMENT:
		return &InvalidArgumentError{err}
	case INVALID_CONFIG:
		return &InvalidConfigError{err}
	}
	return nil
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		innerError error
		errorType  string
		errorCode  codes.Code
		details    []map[string]string
	}{
		{"Execution Error", NewExecutionError("athena", fmt.Errorf("test error")), fmt.Errorf("test error"), EXECUTION_ERROR, codes.Internal, []map[string]string{{"executor_type": "athena"}}},
		{"Connection Error", NewConnectionError("athena", fmt.Errorf("test error")), fmt.Errorf("test error"), CONNECTION_ERROR, codes.Internal, []map[string]string{{"executor_type": "athena"}}},
		{"Calculation Failed Error", NewCalculationFailedError("abc-123", "FAILED", fmt.Errorf("test error")), fmt.Errorf("test error"), CALCULATION_FAILED, codes.FailedPrecondition, []map[string]string{{"calculation_execution_id": "abc-123"}, {"state": "FAILED"}}},
		{"Calculation Does Not Exist Error", NewCalculationDoesNotExistError("abc-123", fmt.Errorf("test error")), fmt.Errorf("test error"), CALCULATION_DOES_NOT_EXIST, codes.NotFound, []map[string]string{{"calculation_execution_id": "abc-123"}}},
		{"Internal Error", NewInternalError(fmt.Errorf("test error")), fmt.Errorf("test error"), INTERNAL_ERROR, codes.Internal, []map[string]string{}},
		{"Internal Errorf", NewInternalErrorf("test %s", "error"), fmt.Errorf("test error"), INTERNAL_ERROR, codes.Internal, []map[string]string{}},
		{"Invalid Argument Error", NewInvalidArgumentError(fmt.Errorf("test error")), fmt.Errorf("test error"), INVALID_ARGUMENT, codes.InvalidArgument, []map[string]string{}},
		{"Invalid Config Error", NewInvalidConfigf("test error"), fmt.Errorf("Failed to Parse Config: test error"), INVALID_CONFIG, codes.InvalidArgument, []map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseError := newBaseError(tt.innerError, tt.errorType, tt.errorCode)
			for _, detail := range tt.details {
				for k, v := range detail {
					baseError.AddDetail(k, v)
				}
			}
			err := setErrorType(baseError, tt.errorType)
			if !reflect.DeepEqual(tt.err.Error(), err.Error()) {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), err.Error())
			}
		})
	}
}

func TestNewErrorEmptyInner(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"Execution Error", NewExecutionError("athena", nil), "execution failed"},
		{"Connection Error", NewConnectionError("athena", nil), "failed connection"},
		{"Calculation Failed Error", NewCalculationFailedError("abc-123", "CANCELED", nil), "calculation abc-123 failed with state: CANCELED"},
		{"Calculation Does Not Exist Error", NewCalculationDoesNotExistError("abc-123", nil), "calculation does not exist"},
		{"Internal Error", NewInternalError(nil), "internal"},
		{"Invalid Argument Error", NewInvalidArgumentError(nil), "invalid argument"},
		{"Sensor Timeout Error", NewSensorTimeoutError("abc-123", time.Minute), "sensor timed out after 1m0s waiting for abc-123"},
		{"Skipped Error", NewSkippedError("timed out"), "task skipped: timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}

func TestGenericError_AddDetail(t *testing.T) {
	e := &GenericError{
		msg:     "",
		err:     fmt.Errorf(""),
		details: map[string]string{},
	}
	e.AddDetail("Some Key", "value")
	if got := e.Details()["some_key"]; got != "value" {
		t.Errorf("AddDetail() did not normalize key, details = %v", e.Details())
	}
}

func TestGenericError_ErrorIsSorted(t *testing.T) {
	err := NewExecutionError("athena", fmt.Errorf("boom"))
	err.AddDetails("session_id", "s-1", "calculation_execution_id", "c-1")
	expected := "boom\ncalculation_execution_id: c-1\nexecutor_type: athena\nsession_id: s-1\n"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestAddDetailsOddArgs(t *testing.T) {
	err := NewInternalError(fmt.Errorf("boom"))
	err.AddDetails("a", 1, "dangling")
	if len(err.Details()) != 1 || err.Details()["a"] != "1" {
		t.Errorf("AddDetails() details = %v", err.Details())
	}
}

func TestCalculationFailedErrorAccessors(t *testing.T) {
	err := NewCalculationFailedError("abc-123", "FAILED", nil)
	if err.State() != "FAILED" {
		t.Errorf("State() = %s, want FAILED", err.State())
	}
	if err.ExecutionID() != "abc-123" {
		t.Errorf("ExecutionID() = %s, want abc-123", err.ExecutionID())
	}
	var target *CalculationFailedError
	if !errors.As(error(err), &target) {
		t.Errorf("errors.As failed for %T", err)
	}
}

func TestToErrFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  GRPCError
		code codes.Code
	}{
		{"Calculation Failed", NewCalculationFailedError("abc-123", "FAILED", nil), codes.FailedPrecondition},
		{"Does Not Exist", NewCalculationDoesNotExistError("abc-123", nil), codes.NotFound},
		{"Sensor Timeout", NewSensorTimeoutError("abc-123", time.Second), codes.DeadlineExceeded},
		{"Invalid Config", NewMissingConfigEnv("AWS_REGION"), codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusErr := tt.err.ToErr()
			st, ok := status.FromError(statusErr)
			if !ok {
				t.Fatalf("ToErr() did not produce a status error: %v", statusErr)
			}
			if st.Code() != tt.code {
				t.Errorf("code = %v, want %v", st.Code(), tt.code)
			}
			rebuilt := FromErr(statusErr)
			if rebuilt.GetType() != tt.err.GetType() {
				t.Errorf("FromErr() type = %s, want %s", rebuilt.GetType(), tt.err.GetType())
			}
			if !reflect.DeepEqual(rebuilt.Details(), tt.err.Details()) {
				t.Errorf("FromErr() details = %v, want %v", rebuilt.Details(), tt.err.Details())
			}
		})
	}
}

func TestFromErrPlainError(t *testing.T) {
	if FromErr(nil) != nil {
		t.Errorf("FromErr(nil) should be nil")
	}
	err := FromErr(fmt.Errorf("plain"))
	if err.GetType() != INTERNAL_ERROR {
		t.Errorf("FromErr(plain) type = %s, want %s", err.GetType(), INTERNAL_ERROR)
	}
}

func TestTypedErrorUnwrapsCause(t *testing.T) {
	err := NewExecutionError("athena", fmt.Errorf("get status: %w", context.Canceled))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(%v, context.Canceled) = false", err)
	}
	if errors.Is(NewInternalError(nil), context.Canceled) {
		t.Errorf("fallback error should not match context.Canceled")
	}
}

func TestMissingConfigEnvDetail(t *testing.T) {
	err := NewMissingConfigEnv("CONFIG")
	if err.Details()["env"] != "CONFIG" {
		t.Errorf("details = %v, want env=CONFIG", err.Details())
	}
	if !strings.HasPrefix(err.Message(), "Failed to Parse Config: Env CONFIG must be set") {
		t.Errorf("Message() = %q", err.Message())
	}
}
