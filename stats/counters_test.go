package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountersIncrementIndependently(t *testing.T) {
	c := NewCounters()
	c.IncPacketsReceived()
	c.IncPacketsReceived()
	c.IncPacketsProcessed()
	c.IncParseErrors()

	snap := c.Snapshot()
	require.EqualValues(t, 2, snap.PacketsReceived)
	require.EqualValues(t, 1, snap.PacketsProcessed)
	require.EqualValues(t, 1, snap.ParseErrors)
	require.EqualValues(t, 0, snap.RingBufferFull)
}

func TestNewRunIDIsUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}
