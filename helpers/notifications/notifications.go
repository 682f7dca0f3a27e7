// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package notifications

import (
	"fmt"

	help "github.com/featureform/athenaspark/helpers"
	"github.com/featureform/athenaspark/integrations"
	"github.com/featureform/athenaspark/logging"
)

type Notifier interface {
	ChangeNotification(executionID, sessionID, state, errorMessage string) error
	ErrorNotification(resource, error string) error
}

type SlackNotifier struct {
	channelID   string
	region      string
	consoleHost string
	slackClient integrations.SlackClient
	logger      logging.Logger
}

func (sn *SlackNotifier) ChangeNotification(executionID, sessionID, state, errorMessage string) error {
	if sn.slackClient == nil {
		sn.logger.Debug("The slack client is nil, returning nil")
		return nil
	}

	// A missing console link should not cost us the notification.
	consoleUrl, err := help.BuildConsoleUrl(sn.consoleHost, sn.region, sessionID, executionID)
	if err != nil {
		sn.logger.Debugw("Not linking to the Athena console", "error", err)
		consoleUrl = ""
	}

	_, _, err = sn.slackClient.PostStatusChangeMessage(
		sn.channelID,
		executionID,
		sessionID,
		state,
		errorMessage,
		consoleUrl,
	)
	if err != nil {
		sn.logger.Errorw("Error posting message to Slack", "error", err)
		return err
	}

	sn.logger.Infof("Successfully posted notification to slack for calculation %s (%s)", executionID, state)
	return nil
}

func (sn *SlackNotifier) ErrorNotification(resource, error string) error {
	if sn.slackClient == nil {
		return nil
	}
	msg := fmt.Sprintf("Calculation (%s) has encountered an error: %s", resource, error)
	if _, _, err := sn.slackClient.PostSimpleMessage(sn.channelID, msg); err != nil {
		sn.logger.Errorw("Error posting message to Slack", "error", err)
		return err
	}
	return nil
}

func NewSlackNotifier(channelID string, logger logging.Logger) *SlackNotifier {
	slackToken := help.GetEnv("SLACK_API_TOKEN", "")
	var slackClient integrations.SlackClient
	if slackToken == "" {
		logger.Infow("SLACK_API_TOKEN not set, Slack notifications will not be sent")
	} else {
		slackClient = integrations.NewSlackClient(slackToken)
	}
	return NewSlackNotifierWithClient(channelID, slackClient, logger)
}

func NewSlackNotifierWithClient(channelID string, client integrations.SlackClient, logger logging.Logger) *SlackNotifier {
	return &SlackNotifier{
		channelID:   channelID,
		region:      help.GetFirstEnv("", "AWS_REGION", "AWS_DEFAULT_REGION"),
		consoleHost: help.GetEnv("ATHENA_CONSOLE_HOST", help.DefaultConsoleHost),
		slackClient: client,
		logger:      logger,
	}
}

type NoOpNotifier struct{}

func (NoOpNotifier) ChangeNotification(executionID, sessionID, state, errorMessage string) error {
	return nil
}

func (NoOpNotifier) ErrorNotification(resource, error string) error {
	return nil
}
