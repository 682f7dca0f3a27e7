// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package integrations

import (
	"fmt"

	"github.com/slack-go/slack"
)

const (
	colorCompleted = "#33AE7E"
	colorPending   = "#d3963f"
	colorFailed    = "#96110F"
	colorUnknown   = "#000000"
)

// StatusChange is one calculation state transition as posted to a channel.
type StatusChange struct {
	ExecutionID  string
	SessionID    string
	State        string
	ErrorMessage string
	ConsoleUrl   string
}

// Text is the plain rendering, used as the attachment fallback.
func (c StatusChange) Text() string {
	return fmt.Sprintf(
		"Calculation: %s\n"+
			"Session: %s\n"+
			"State: %s\n"+
			"Error Message: %s\n"+
			"ConsoleUrl: %s",
		c.ExecutionID, c.SessionID, c.State, c.ErrorMessage, c.ConsoleUrl,
	)
}

// Blocks see https://api.slack.com/block-kit
func (c StatusChange) Blocks() []slack.Block {
	blockSet := []slack.Block{
		CreateSectionFromFields("Calculation", c.ExecutionID),
		CreateSectionFromFields("Session", c.SessionID),
		CreateSectionFromFields("State", c.State),
	}
	if c.ErrorMessage != "" {
		blockSet = append(blockSet, CreateSectionFromFields("Error Message", c.ErrorMessage))
	}
	if c.ConsoleUrl != "" {
		blockSet = append(blockSet, CreateUrlButton("View in Athena", c.ConsoleUrl))
	}
	return blockSet
}

func (c StatusChange) Attachment() slack.Attachment {
	return slack.Attachment{
		Color:    GetColorForStatus(c.State),
		Fallback: c.Text(),
		Blocks:   slack.Blocks{BlockSet: c.Blocks()},
	}
}

func CreateUrlButton(text, url string) slack.Block {
	textObject := slack.NewTextBlockObject("plain_text", text, false, false)
	button := slack.NewButtonBlockElement("", text, textObject)
	button.URL = url
	return slack.NewActionBlock("", button)
}

func CreateSectionFromFields(title, value string) slack.Block {
	text := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*%s*\n%s", title, value), false, false)
	return slack.NewSectionBlock(text, nil, nil)
}

func GetColorForStatus(state string) string {
	switch state {
	case "COMPLETED":
		return colorCompleted
	case "FAILED", "CANCELED":
		return colorFailed
	case "CREATING", "CREATED", "QUEUED", "RUNNING", "CANCELING":
		return colorPending
	default:
		return colorUnknown
	}
}
