package wire

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/AlephTX/bbo-ingest/bbo"
	"github.com/AlephTX/bbo-ingest/pool"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}

func newPool(t *testing.T) *pool.SlotPool {
	t.Helper()
	p, err := pool.New(64)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

// Scenario 1: minimal parse.
func TestParseMinimal(t *testing.T) {
	payload := mustHex(t, "41 41 50 4C 20 20 20 20 00 16 E3 60 00 00 00 64 00 16 E7 48 00 00 00 64 00 00 27 10")
	require.Len(t, payload, MinLen)

	p := newPool(t)
	rec := Parse(payload, p, 1234, 7)
	require.NotNil(t, rec)

	require.Equal(t, "AAPL", rec.GetSymbol())
	require.InDelta(t, 150.0000, rec.BidPrice, 1e-9)
	require.EqualValues(t, 100, rec.BidShares)
	require.InDelta(t, 150.1000, rec.AskPrice, 1e-9)
	require.EqualValues(t, 100, rec.AskShares)
	require.InDelta(t, 1.0000, rec.Spread, 1e-9)
	require.EqualValues(t, 1, rec.Valid)
	require.EqualValues(t, 0, rec.Flags)
	require.EqualValues(t, 1234, rec.TimestampNS)
	require.EqualValues(t, 7, rec.Sequence)
}

// Scenario 2: full parse with hardware timestamps.
func TestParseFullWithTimestamps(t *testing.T) {
	base := mustHex(t, "41 41 50 4C 20 20 20 20 00 16 E3 60 00 00 00 64 00 16 E5 A0 00 00 00 64 00 00 27 10")
	hw := mustHex(t, "00 00 00 01 00 00 00 05 00 00 00 0A 00 00 00 14")
	payload := append(append([]byte{}, base...), hw...)
	require.Len(t, payload, FullLen)

	p := newPool(t)
	rec := Parse(payload, p, 1234, 1)
	require.NotNil(t, rec)
	require.EqualValues(t, bbo.FlagHasHWTimestamps, rec.Flags)

	annex, ok := ExtractHWAnnex(payload)
	require.True(t, ok)
	require.EqualValues(t, 1, annex.T1)
	require.EqualValues(t, 5, annex.T2)
	require.EqualValues(t, 10, annex.T3)
	require.EqualValues(t, 20, annex.T4)
	require.InDelta(t, 0.032, annex.LatencyAUS, 1e-9)
	require.InDelta(t, 0.080, annex.LatencyBUS, 1e-9)
}

// Scenario 3: short payload rejected.
func TestParseShortPayloadRejected(t *testing.T) {
	base := mustHex(t, "41 41 50 4C 20 20 20 20 00 16 E3 60 00 00 00 64 00 16 E5 A0 00 00 00 64 00 00 27 10")
	short := base[:27]

	p := newPool(t)
	headBefore := p.CurrentHead()
	rec := Parse(short, p, 1, 1)
	require.Nil(t, rec)
	require.Equal(t, headBefore, p.CurrentHead())
}

// Scenario 7: pool wrap — slot addresses of acquire #1 and #1025 on a
// 1024-slot pool are identical; exercised at the parser level since
// that's the caller-visible contract.
func TestParsePoolWrapAround(t *testing.T) {
	p, err := pool.New(1024)
	require.NoError(t, err)
	defer p.Close()

	payload := mustHex(t, "41 41 50 4C 20 20 20 20 00 16 E3 60 00 00 00 64 00 16 E5 A0 00 00 00 64 00 00 27 10")

	first := Parse(payload, p, 0, 0)
	for i := 1; i < 1024; i++ {
		Parse(payload, p, 0, uint32(i))
	}
	wrapped := Parse(payload, p, 0, 1024)

	require.Same(t, first, wrapped)
}

func TestParseBoundaryLengths(t *testing.T) {
	base := mustHex(t, "41 41 50 4C 20 20 20 20 00 16 E3 60 00 00 00 64 00 16 E5 A0 00 00 00 64 00 00 27 10")

	for length := MinLen; length < FullLen; length++ {
		p := newPool(t)
		rec := Parse(base[:length], p, 0, 0)
		require.NotNil(t, rec)
		require.EqualValues(t, 0, rec.Flags, "length %d should not set HAS_HW_TIMESTAMPS", length)
	}

	oversized := append(append([]byte{}, base...), mustHex(t, "00 00 00 01 00 00 00 05 00 00 00 0A 00 00 00 14")...)
	oversized = append(oversized, 0xFF, 0xFF, 0xFF) // extra trailing junk
	p := newPool(t)
	rec := Parse(oversized, p, 0, 0)
	require.NotNil(t, rec)
	require.EqualValues(t, bbo.FlagHasHWTimestamps, rec.Flags)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	base := mustHex(t, "41 41 50 4C 20 20 20 20 00 16 E3 60 00 00 00 64 00 16 E5 A0 00 00 00 64 00 00 27 10")
	p := newPool(t)
	rec := Parse(base, p, 99, 1)
	require.NotNil(t, rec)

	encoded := Encode(rec, nil)
	require.Equal(t, base, encoded)
}
