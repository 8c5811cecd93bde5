package shmring

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func uniqueName(t *testing.T) string {
	t.Helper()
	name := fmt.Sprintf("test_%s_%d", t.Name(), os.Getpid())
	t.Cleanup(func() { os.Remove(segmentPath(name)) })
	return name
}

func TestOpenCreatesSegment(t *testing.T) {
	name := uniqueName(t)
	r, err := Open(name, 16)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, ringMagic, r.hdr.Magic)
	require.EqualValues(t, 16, r.hdr.Capacity)
	require.EqualValues(t, 0, r.Len())

	_, statErr := os.Stat(segmentPath(name))
	require.NoError(t, statErr)
}

func TestOpenRejectsNonPowerOfTwo(t *testing.T) {
	_, err := Open(uniqueName(t), 10)
	require.Error(t, err)
}

func TestOpenReattachesToExistingSegment(t *testing.T) {
	name := uniqueName(t)
	r1, err := Open(name, 8)
	require.NoError(t, err)

	rec := Record{Sequence: 42, Valid: 1}
	require.True(t, r1.TryPublish(&rec))
	require.NoError(t, r1.Close())

	r2, err := Open(name, 8)
	require.NoError(t, err)
	defer r2.Close()

	require.EqualValues(t, 1, r2.Len())
	require.EqualValues(t, 42, r2.records[0].Sequence)
}

func TestOpenRecreatesOnCapacityMismatch(t *testing.T) {
	name := uniqueName(t)
	r1, err := Open(name, 8)
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	r2, err := Open(name, 16)
	require.NoError(t, err)
	defer r2.Close()

	require.EqualValues(t, 16, r2.hdr.Capacity)
	require.EqualValues(t, 0, r2.Len())
}

// Scenario 6: ring full.
func TestTryPublishFullRing(t *testing.T) {
	name := uniqueName(t)
	r, err := Open(name, 16)
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 16; i++ {
		rec := Record{Sequence: uint32(i)}
		require.True(t, r.TryPublish(&rec), "publish %d should succeed", i)
	}

	overflow := Record{Sequence: 16}
	require.False(t, r.TryPublish(&overflow))
	require.EqualValues(t, 16, r.Len())
}

func TestTryPublishResumesAfterDrain(t *testing.T) {
	name := uniqueName(t)
	r, err := Open(name, 4)
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 4; i++ {
		require.True(t, r.TryPublish(&Record{Sequence: uint32(i)}))
	}
	require.False(t, r.TryPublish(&Record{Sequence: 4}))

	r.hdr.Tail.v.Store(2) // simulate consumer draining two slots
	require.True(t, r.TryPublish(&Record{Sequence: 4}))
	require.True(t, r.TryPublish(&Record{Sequence: 5}))
	require.False(t, r.TryPublish(&Record{Sequence: 6}))
}
