// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package integrations

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorForStatus(t *testing.T) {
	assert.Equal(t, "#33AE7E", GetColorForStatus("COMPLETED"))
	assert.Equal(t, "#96110F", GetColorForStatus("FAILED"))
	assert.Equal(t, "#96110F", GetColorForStatus("CANCELED"))
	assert.Equal(t, "#d3963f", GetColorForStatus("RUNNING"))
	assert.Equal(t, "#000000", GetColorForStatus("UNKNOWN"))
}

func TestCreateSectionFromFields(t *testing.T) {
	block := CreateSectionFromFields("State", "RUNNING")
	section, ok := block.(*slack.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "*State*\nRUNNING", section.Text.Text)
	assert.Equal(t, "mrkdwn", section.Text.Type)
}

func TestCreateUrlButton(t *testing.T) {
	block := CreateUrlButton("View in Athena", "https://example.com")
	action, ok := block.(*slack.ActionBlock)
	require.True(t, ok)
	require.Len(t, action.Elements.ElementSet, 1)
	button, ok := action.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", button.URL)
}

func TestMockSlackClient(t *testing.T) {
	client := &MockSlackClient{}
	_, _, err := client.PostStatusChangeMessage("C1", "abc-123", "s-1", "FAILED", "boom", "http://console")
	require.NoError(t, err)
	_, _, err = client.PostSimpleMessage("C1", "hello")
	require.NoError(t, err)

	msgs := client.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Calculation: abc-123\nSession: s-1\nState: FAILED\nError Message: boom\nConsoleUrl: http://console", msgs[0])
	assert.Equal(t, "hello", msgs[1])
}

func TestStatusChangeBlocks(t *testing.T) {
	change := StatusChange{ExecutionID: "abc-123", SessionID: "s-1", State: "COMPLETED"}
	assert.Len(t, change.Blocks(), 3)

	change.ErrorMessage = "boom"
	change.ConsoleUrl = "https://console"
	blocks := change.Blocks()
	require.Len(t, blocks, 5)
	_, ok := blocks[4].(*slack.ActionBlock)
	assert.True(t, ok)

	attachment := change.Attachment()
	assert.Equal(t, "#33AE7E", attachment.Color)
	assert.Equal(t, change.Text(), attachment.Fallback)
	assert.Len(t, attachment.Blocks.BlockSet, 5)
}
