package arch

import "sync/atomic"

var barrierSink atomic.Uint64

// CompilerBarrier prevents the compiler from reordering memory
// operations across this call. An atomic add with a discarded result has
// no observable effect but cannot be eliminated or hoisted past, which is
// exactly the property pool.WarmCache and the engine's warm-up cache touch
// need.
func CompilerBarrier() {
	barrierSink.Add(0)
}
