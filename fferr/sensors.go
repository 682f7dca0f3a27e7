package fferr

import (
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
)

type SensorTimeoutError struct {
	baseError
}

func NewSensorTimeoutError(target string, timeout time.Duration) *SensorTimeoutError {
	err := fmt.Errorf("sensor timed out after %s waiting for %s", timeout, target)
	baseError := newBaseError(err, SENSOR_TIMEOUT, codes.DeadlineExceeded)
	baseError.AddDetail("Target", target)
	baseError.AddDetail("Timeout", timeout.String())

	return &SensorTimeoutError{
		baseError,
	}
}

// SkippedError marks a task that gave up without failing, e.g. a soft-fail sensor that timed out.
type SkippedError struct {
	baseError
}

func NewSkippedError(reason string) *SkippedError {
	err := fmt.Errorf("task skipped: %s", reason)
	baseError := newBaseError(err, TASK_SKIPPED, codes.Aborted)

	return &SkippedError{
		baseError,
	}
}
