// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/assistant/internal/api"
)

func TestCmd_ProducesResultMsg(t *testing.T) {
	cmd := New("generate", staticFunc(&api.Envelope{Success: true, Text: "done"}, nil))

	msg := cmd.Cmd(context.Background(), nil)()
	result, ok := msg.(ResultMsg)
	require.True(t, ok)
	assert.Equal(t, "generate", result.Command)
	assert.NoError(t, result.Err)
	assert.Equal(t, "done", result.Envelope.Text)
}

func TestCmd_CarriesError(t *testing.T) {
	cmd := New("generate", staticFunc(&api.Envelope{Success: false, Error: "X"}, nil))

	result := cmd.Cmd(context.Background(), nil)().(ResultMsg)
	assert.Nil(t, result.Envelope)
	assert.Error(t, result.Err)
}

func TestListen_DeliversState(t *testing.T) {
	cmd := New("generate", staticFunc(&api.Envelope{Success: true}, nil))
	states, cancel := cmd.Subscribe()
	defer cancel()

	_, _ = cmd.Invoke(context.Background(), nil)

	msg := cmd.Listen(states)()
	stateMsg, ok := msg.(StateMsg)
	require.True(t, ok)
	assert.Equal(t, "generate", stateMsg.Command)
	assert.False(t, stateMsg.State.Pending)
}

func TestListen_ClosedChannel(t *testing.T) {
	cmd := New("generate", staticFunc(&api.Envelope{Success: true}, nil))
	states, cancel := cmd.Subscribe()
	cancel()

	assert.Nil(t, cmd.Listen(states)())
}
