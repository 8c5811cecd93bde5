package shmring

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/AlephTX/bbo-ingest/bbo"
	"github.com/stretchr/testify/require"
)

func uniquePublisherName(t *testing.T) string {
	t.Helper()
	name := fmt.Sprintf("pub_%s_%d", t.Name(), os.Getpid())
	t.Cleanup(func() { os.Remove(segmentPath(name)) })
	return name
}

func TestPublishWidensSymbolAndZeroesFlags(t *testing.T) {
	p, err := NewPublisher(uniquePublisherName(t), 8)
	require.NoError(t, err)
	defer p.Close()

	fast := &bbo.Record{
		BidPrice:  150.0,
		AskPrice:  150.1,
		BidShares: 100,
		AskShares: 100,
		Spread:    1.0,
		Sequence:  7,
		Valid:     1,
		Flags:     bbo.FlagHasHWTimestamps,
	}
	fast.SetSymbol([]byte("AAPL"))

	require.True(t, p.Publish(fast))
	require.EqualValues(t, 1, p.Len())

	got := p.ring.records[0]
	want := "AAPL" + strings.Repeat(" ", 11) + "\x00"
	require.Equal(t, want, string(got.Symbol[:]))
	require.InDelta(t, 150.0, got.BidPrice, 1e-9)
	require.InDelta(t, 150.1, got.AskPrice, 1e-9)
	require.EqualValues(t, 0, got.Flags, "downstream record never carries the hardware-timestamp flag")
	require.Zero(t, got.T1)
	require.Zero(t, got.T2)
	require.Zero(t, got.T3)
	require.Zero(t, got.T4)
	require.Zero(t, got.LatencyAUS)
	require.Zero(t, got.LatencyMidUS)
	require.Zero(t, got.LatencyBUS, "hardware-timestamp annex is always zeroed downstream")
}

func TestPublishCountsRingFull(t *testing.T) {
	p, err := NewPublisher(uniquePublisherName(t), 4)
	require.NoError(t, err)
	defer p.Close()

	fast := &bbo.Record{Valid: 1}
	for i := 0; i < 4; i++ {
		require.True(t, p.Publish(fast))
	}
	require.False(t, p.Publish(fast))
	require.EqualValues(t, 1, p.RingBufferFull())
}
