// Package arch collects the branch-hint, prefetch, and memory-ordering
// primitives the receive engine places on its hot path. None of these
// allocate or call into the scheduler; callers are expected to inline
// them at the point of use rather than treat them as a general-purpose
// API.
package arch

// Likely hints that cond is expected to evaluate true. Go's compiler has
// no branch-weight intrinsic to hand this hint to, so Likely/Unlikely are
// identity functions today — they exist so call sites at
// engine/engine.go and wire/parser.go read as weighted branches, and so that a future
// profile-guided build (or an assembly rewrite of the hottest predicates)
// has an obvious place to hook in.
func Likely(cond bool) bool { return cond }

// Unlikely hints that cond is expected to evaluate false. See Likely.
func Unlikely(cond bool) bool { return cond }
