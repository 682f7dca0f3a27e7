// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package notifications

import (
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/featureform/athenaspark/integrations"
	"github.com/featureform/athenaspark/logging"
)

func TestSlackNotifier_ErrorNotification(t *testing.T) {
	mockSlackClient := &integrations.MockSlackClient{}
	sn := &SlackNotifier{
		logger:      logging.WrapZapLogger(zap.NewExample().Sugar()),
		slackClient: mockSlackClient,
	}
	if err := sn.ErrorNotification("abc-123", "test error"); err != nil {
		t.Errorf("SlackNotifier.ErrorNotification() error = %v", err)
	}
	want := "Calculation (abc-123) has encountered an error: test error"
	if mockSlackClient.Messages[0] != want {
		t.Errorf("SlackNotifier.ErrorNotification() message got = %s; want = %s", mockSlackClient.Messages[0], want)
	}
}

func TestSlackNotifier_ChangeNotification(t *testing.T) {
	channelId := "CHANNEL_FUEGO"
	logger := logging.WrapZapLogger(zap.NewExample().Sugar())
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("ATHENA_CONSOLE_HOST", "localhost:4566")

	type args struct {
		executionID  string
		sessionID    string
		state        string
		errorMessage string
	}
	tests := []struct {
		name               string
		args               args
		expectedConsoleUrl string
	}{
		{
			name: "Completed",
			args: args{
				executionID: "abc-123",
				sessionID:   "s-1",
				state:       "COMPLETED",
			},
			expectedConsoleUrl: "http://localhost:4566/athena/home?region=us-east-1#/notebook-explorer/sessions/s-1/calculations/abc-123",
		},
		{
			name: "Failed",
			args: args{
				executionID:  "abc-124",
				sessionID:    "s-1",
				state:        "FAILED",
				errorMessage: "Athena Spark job failed or was canceled. Final state: FAILED",
			},
			expectedConsoleUrl: "http://localhost:4566/athena/home?region=us-east-1#/notebook-explorer/sessions/s-1/calculations/abc-124",
		},
		{
			name: "Sensor Without Session",
			args: args{
				executionID: "abc-125",
				state:       "COMPLETED",
			},
			expectedConsoleUrl: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slackClient := &integrations.MockSlackClient{}
			sn := NewSlackNotifierWithClient(channelId, slackClient, logger)
			if err := sn.ChangeNotification(tt.args.executionID, tt.args.sessionID, tt.args.state, tt.args.errorMessage); err != nil {
				t.Fatalf("ChangeNotification() error = %v", err)
			}
			want := fmt.Sprintf(
				"Calculation: %s\nSession: %s\nState: %s\nError Message: %s\nConsoleUrl: %s",
				tt.args.executionID, tt.args.sessionID, tt.args.state, tt.args.errorMessage, tt.expectedConsoleUrl,
			)
			if len(slackClient.Messages) != 1 || slackClient.Messages[0] != want {
				t.Errorf("ChangeNotification() messages = %v; want %s", slackClient.Messages, want)
			}
		})
	}
}

func TestSlackNotifier_NilClient(t *testing.T) {
	t.Setenv("SLACK_API_TOKEN", "")
	sn := NewSlackNotifier("C1", logging.NewNopLogger())
	if err := sn.ChangeNotification("abc-123", "s-1", "COMPLETED", ""); err != nil {
		t.Errorf("ChangeNotification() with nil client error = %v", err)
	}
	if err := sn.ErrorNotification("abc-123", "boom"); err != nil {
		t.Errorf("ErrorNotification() with nil client error = %v", err)
	}
}

func TestNoOpNotifier(t *testing.T) {
	var n Notifier = NoOpNotifier{}
	if err := n.ChangeNotification("abc-123", "s-1", "FAILED", "boom"); err != nil {
		t.Errorf("NoOpNotifier.ChangeNotification() error = %v", err)
	}
}
