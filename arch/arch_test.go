package arch

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestLikelyUnlikelyAreIdentity(t *testing.T) {
	require.True(t, Likely(true))
	require.False(t, Likely(false))
	require.True(t, Unlikely(true))
	require.False(t, Unlikely(false))
}

func TestPrefetchDoesNotPanic(t *testing.T) {
	buf := make([]byte, 64)
	require.NotPanics(t, func() {
		PrefetchL1(unsafe.Pointer(&buf[0]))
		PrefetchL2(unsafe.Pointer(&buf[0]))
	})
}

func TestFencesDoNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		CompilerBarrier()
		MemoryFence()
	})
}
