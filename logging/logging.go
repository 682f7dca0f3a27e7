// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package logging

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestIDKey contextKey = "request-id"
	LoggerKey    contextKey = "logger"
)

type RequestID string

func (r RequestID) String() string {
	return string(r)
}

type Logger struct {
	*zap.SugaredLogger
	id     RequestID
	values *sync.Map
}

func NewRequestID() RequestID {
	return RequestID(uuid.New().String())
}

func NewLogger(service string) Logger {
	baseLogger, err := zap.NewDevelopment(
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		panic(err)
	}
	return WrapZapLogger(baseLogger.Sugar().Named(service))
}

// NewLoggerWithLevel builds a production-style JSON logger, used by the CLI where level is configurable.
func NewLoggerWithLevel(service, level string) Logger {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	baseLogger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		panic(err)
	}
	return WrapZapLogger(baseLogger.Sugar().Named(service))
}

func NewNopLogger() Logger {
	return WrapZapLogger(zap.NewNop().Sugar())
}

func WrapZapLogger(sugared *zap.SugaredLogger) Logger {
	return Logger{
		SugaredLogger: sugared,
		values:        &sync.Map{},
	}
}

func (logger Logger) WithRequestID(id RequestID) Logger {
	next := logger.WithValues(map[string]interface{}{string(RequestIDKey): id})
	next.id = id
	return next
}

func (logger Logger) WithCalculation(sessionID, executionID string) Logger {
	values := map[string]interface{}{}
	if sessionID != "" {
		values["session-id"] = sessionID
	}
	if executionID != "" {
		values["calculation-execution-id"] = executionID
	}
	return logger.WithValues(values)
}

func (logger Logger) WithConnection(connID string) Logger {
	return logger.WithValues(map[string]interface{}{"aws-conn-id": connID})
}

func (logger Logger) WithValues(values map[string]interface{}) Logger {
	combined := &sync.Map{}
	if logger.values != nil {
		logger.values.Range(func(key, value interface{}) bool {
			combined.Store(key, value)
			return true
		})
	}
	args := make([]interface{}, 0, len(values)*2)
	for k, v := range values {
		combined.Store(k, v)
		args = append(args, k, v)
	}
	return Logger{
		SugaredLogger: logger.SugaredLogger.With(args...),
		id:            logger.id,
		values:        combined,
	}
}

func (logger Logger) GetValue(key string) interface{} {
	if logger.values == nil {
		return nil
	}
	val, ok := logger.values.Load(key)
	if !ok {
		return nil
	}
	return val
}

func (logger Logger) RequestID() RequestID {
	return logger.id
}

// InitializeRequestID returns a new request id and a context that carries both it and the tagged logger.
func (logger Logger) InitializeRequestID(ctx context.Context) (RequestID, context.Context, Logger) {
	requestID := NewRequestID()
	ctx = AttachRequestID(requestID, ctx, logger)
	return requestID, ctx, GetLoggerFromContext(ctx)
}

func AttachRequestID(id RequestID, ctx context.Context, logger Logger) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, id)
	return context.WithValue(ctx, LoggerKey, logger.WithRequestID(id))
}

func GetRequestIDFromContext(ctx context.Context) RequestID {
	id, ok := ctx.Value(RequestIDKey).(RequestID)
	if !ok {
		return ""
	}
	return id
}

func GetLoggerFromContext(ctx context.Context) Logger {
	logger, ok := ctx.Value(LoggerKey).(Logger)
	if !ok {
		return NewLogger("athenaspark")
	}
	return logger
}
