//go:build !linux

package pool

import "fmt"

// allocateBacking on non-Linux targets skips straight to the
// 64-byte-aligned ordinary allocation: huge-page anonymous mappings are a
// Linux-specific facility (MAP_HUGETLB), and this codebase does not
// fabricate a cross-platform huge-page shim the retrieved examples never
// show.
func allocateBacking(n int) (data []byte, hugePages bool, release func([]byte) error, err error) {
	data, err = alignedAlloc(n)
	if err != nil {
		return nil, false, nil, fmt.Errorf("aligned-alloc backing failed: %w", err)
	}
	return data, false, func([]byte) error { return nil }, nil
}
