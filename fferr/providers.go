// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package fferr

import (
	"google.golang.org/grpc/codes"
)

// ExecutionError is any failure reported by the remote executor while submitting, polling or stopping
// a calculation. The SDK error stays reachable through errors.As.
type ExecutionError struct {
	baseError
}

func NewExecutionError(executorType string, err error) *ExecutionError {
	baseError := newTypedError(err, "execution failed", EXECUTION_ERROR, codes.Internal)
	baseError.AddDetail("Executor Type", executorType)
	return &ExecutionError{baseError}
}

// ConnectionError means no client could be built for an aws_conn_id.
type ConnectionError struct {
	baseError
}

func NewConnectionError(executorType string, err error) *ConnectionError {
	baseError := newTypedError(err, "failed connection", CONNECTION_ERROR, codes.Internal)
	baseError.AddDetail("Executor Type", executorType)
	return &ConnectionError{baseError}
}
