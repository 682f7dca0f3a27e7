// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

// Package hooktest provides a scriptable provider.AthenaSparkHook for tests.
package hooktest

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/mock"

	"github.com/featureform/athenaspark/provider"
)

// MockHook records calls through testify/mock. Terminal and Failure default to the Athena sets when nil.
type MockHook struct {
	mock.Mock
	Terminal mapset.Set[string]
	Failure  mapset.Set[string]
}

func NewMockHook() *MockHook {
	return &MockHook{}
}

func (m *MockHook) StartCalculationExecution(ctx context.Context, sessionID, codeBlock string) (string, error) {
	args := m.Called(ctx, sessionID, codeBlock)
	return args.String(0), args.Error(1)
}

func (m *MockHook) CheckCalculationStatus(ctx context.Context, executionID string) (string, error) {
	args := m.Called(ctx, executionID)
	return args.String(0), args.Error(1)
}

func (m *MockHook) StopCalculationExecution(ctx context.Context, executionID string) error {
	args := m.Called(ctx, executionID)
	return args.Error(0)
}

func (m *MockHook) TerminalStates() mapset.Set[string] {
	if m.Terminal != nil {
		return m.Terminal
	}
	return provider.DefaultTerminalStates()
}

func (m *MockHook) FailureStates() mapset.Set[string] {
	if m.Failure != nil {
		return m.Failure
	}
	return provider.DefaultFailureStates()
}

// ExpectStates queues one CheckCalculationStatus answer per state, in order.
func (m *MockHook) ExpectStates(executionID string, states ...string) {
	for _, state := range states {
		m.On("CheckCalculationStatus", mock.Anything, executionID).Return(state, nil).Once()
	}
}

// Factory returns a HookFactory that hands out m and counts how often it was asked.
func (m *MockHook) Factory(calls *int) provider.HookFactory {
	return func(ctx context.Context, connID string) (provider.AthenaSparkHook, error) {
		if calls != nil {
			*calls++
		}
		return m, nil
	}
}
