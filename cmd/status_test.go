package cmd

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

func TestGetColoredState(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	assert.Equal(t, "SUCCESS", getColoredState(types.StateSuccess))
	assert.Equal(t, "CLAIM", getColoredState(types.StateClaim))
	assert.Equal(t, "PENDING", getColoredState(types.StatePending))
	assert.Equal(t, "INDEXING", getColoredState(types.StateIndexing))
	assert.Equal(t, "FAILED", getColoredState(types.StateFailed))
	assert.Equal(t, "REVERT", getColoredState(types.StateRevert))
	assert.Equal(t, "ERROR", getColoredState(types.StateError))

	// Unknown states pass through uppercased, never panic
	assert.Equal(t, "SOMETHING", getColoredState(types.StatusState("something")))
}
