// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("test-logger")
	if logger.id != "" || logger.SugaredLogger == nil {
		t.Fatalf("Logger created incorrectly.")
	}
}

func TestWithCalculation(t *testing.T) {
	logger := NewLogger("test-logger")
	logger = logger.WithCalculation("session-1", "calc-1")
	if logger.SugaredLogger == nil {
		t.Fatalf("SugaredLogger doesnt exist.")
	}
	if logger.GetValue("session-id") != "session-1" {
		t.Fatalf("Incorrect values for logger, expected %s, got %v", "session-1", logger.GetValue("session-id"))
	}
	if logger.GetValue("calculation-execution-id") != "calc-1" {
		t.Fatalf("Incorrect values for logger, expected %s, got %v", "calc-1", logger.GetValue("calculation-execution-id"))
	}
}

func TestWithCalculationSkipsEmpty(t *testing.T) {
	logger := NewNopLogger().WithCalculation("session-1", "")
	if logger.GetValue("calculation-execution-id") != nil {
		t.Fatalf("Expected no execution id, got %v", logger.GetValue("calculation-execution-id"))
	}
}

func TestWithValuesDoesNotMutateParent(t *testing.T) {
	parent := NewNopLogger().WithConnection("aws_default")
	child := parent.WithValues(map[string]interface{}{"extra": 1})
	if parent.GetValue("extra") != nil {
		t.Fatalf("Parent logger was mutated")
	}
	if child.GetValue("aws-conn-id") != "aws_default" {
		t.Fatalf("Child logger lost parent values")
	}
}

func TestLoggedFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := WrapZapLogger(zap.New(core).Sugar()).WithCalculation("session-1", "calc-1")
	logger.Infow("Current calculation state is: RUNNING")
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session-id"] != "session-1" || fields["calculation-execution-id"] != "calc-1" {
		t.Fatalf("Unexpected fields: %v", fields)
	}
}

func TestInitializeRequestID(t *testing.T) {
	logger := NewLogger("test-logger")
	ctx := context.Background()
	requestID, updatedContext, newLogger := logger.InitializeRequestID(ctx)
	if newLogger.id != requestID {
		t.Fatalf("Logger Request ID not set correctly. Expected %s, got %s", requestID, newLogger.id)
	}
	requestIDFromContext := GetRequestIDFromContext(updatedContext)
	if requestID != requestIDFromContext {
		t.Fatalf("Request ID not found in context. Expected %s, got %s", requestID, requestIDFromContext)
	}
	loggerFromContext := GetLoggerFromContext(updatedContext)
	if loggerFromContext.id != newLogger.id {
		t.Fatalf("Logger not found in context. Expected %s, got %s", newLogger.id, loggerFromContext.id)
	}
}

func TestUpdateContext(t *testing.T) {
	logger := NewLogger("test-logger")
	requestID := NewRequestID()
	updatedCtx := AttachRequestID(requestID, context.Background(), logger)

	requestIDFromContext := GetRequestIDFromContext(updatedCtx)
	if requestID != requestIDFromContext {
		t.Fatalf("Request ID not found in context. Expected %s, got %s", requestID, requestIDFromContext)
	}
	loggerFromContext := GetLoggerFromContext(updatedCtx)
	if loggerFromContext.id != requestID {
		t.Fatalf("ID not found in logger. Expected %s, got %s", requestID, loggerFromContext.id)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if id := GetRequestIDFromContext(context.Background()); id != "" {
		t.Fatalf("Expected empty request id, got %s", id)
	}
}
