// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package integrations

import (
	"sync"
	"time"

	"github.com/slack-go/slack"
)

type SlackClient interface {
	PostSimpleMessage(channelID, message string) (string, string, error)
	PostStatusChangeMessage(
		channelID,
		executionID,
		sessionID,
		state,
		errorMessage,
		consoleUrl string,
	) (string, string, error)
}

type SlackClientImpl struct {
	client *slack.Client
}

// PostStatusChangeMessage returns channelID, timestamp, error
func (s *SlackClientImpl) PostStatusChangeMessage(
	channelID,
	executionID,
	sessionID,
	state,
	errorMessage,
	consoleUrl string,
) (string, string, error) {
	change := StatusChange{
		ExecutionID:  executionID,
		SessionID:    sessionID,
		State:        state,
		ErrorMessage: errorMessage,
		ConsoleUrl:   consoleUrl,
	}
	_, ts, err := s.client.PostMessage(channelID, slack.MsgOptionAttachments(change.Attachment()))
	if err != nil {
		return "", "", err
	}
	return channelID, ts, nil
}

// PostSimpleMessage returns channelID, timestamp, error
func (s *SlackClientImpl) PostSimpleMessage(channelID, message string) (string, string, error) {
	return s.client.PostMessage(channelID, slack.MsgOptionText(message, false))
}

func NewSlackClient(token string) SlackClient {
	return &SlackClientImpl{
		client: slack.New(token),
	}
}

// MockSlackClient is safe for concurrent use since sensors may post from several goroutines.
type MockSlackClient struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockSlackClient) PostSimpleMessage(channelID, message string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, message)
	return channelID, time.Now().String(), nil
}

func (m *MockSlackClient) PostStatusChangeMessage(
	channelID,
	executionID,
	sessionID,
	state,
	errorMessage,
	consoleUrl string,
) (string, string, error) {
	msg := StatusChange{
		ExecutionID:  executionID,
		SessionID:    sessionID,
		State:        state,
		ErrorMessage: errorMessage,
		ConsoleUrl:   consoleUrl,
	}.Text()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
	return channelID, time.Now().String(), nil
}

func (m *MockSlackClient) GetMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Messages...)
}
