package fferr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// newTypedError is where every constructor in this package starts. A nil err is replaced by fallback.
func newTypedError(err error, fallback, errorType string, code codes.Code) baseError {
	if err == nil {
		err = errors.New(fallback)
	}
	return newBaseError(err, errorType, code)
}

type InternalError struct {
	baseError
}

func NewInternalError(err error) *InternalError {
	return &InternalError{newTypedError(err, "internal", INTERNAL_ERROR, codes.Internal)}
}

func NewInternalErrorf(format string, a ...any) *InternalError {
	return NewInternalError(fmt.Errorf(format, a...))
}

type InvalidArgumentError struct {
	baseError
}

func NewInvalidArgumentError(err error) *InvalidArgumentError {
	return &InvalidArgumentError{newTypedError(err, "invalid argument", INVALID_ARGUMENT, codes.InvalidArgument)}
}

func NewInvalidArgumentErrorf(format string, a ...any) *InvalidArgumentError {
	return NewInvalidArgumentError(fmt.Errorf(format, a...))
}

// InvalidConfigError covers bad env values and undefined or malformed connections.
type InvalidConfigError struct {
	baseError
}

func NewInvalidConfigf(format string, a ...any) *InvalidConfigError {
	err := fmt.Errorf("Failed to Parse Config: "+format, a...)
	return &InvalidConfigError{newTypedError(err, "", INVALID_CONFIG, codes.InvalidArgument)}
}

func NewMissingConfigEnv(env string) *InvalidConfigError {
	err := NewInvalidConfigf("Env %s must be set", env)
	err.AddDetail("env", env)
	return err
}

func NewInvalidConfigEnv(env string, val any, possibleValues any) *InvalidConfigError {
	err := NewInvalidConfigf("Env %s set to %v. Must be %v", env, val, possibleValues)
	err.AddDetail("env", env)
	return err
}
