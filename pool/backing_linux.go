//go:build linux

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocateBacking tries, in order: a huge-page anonymous mapping using
// the kernel's default huge page size, an anonymous mapping with an
// explicit 2 MiB size hint, and finally a manually 64-byte-aligned
// ordinary heap allocation. Matches the teacher's shm package's
// mmap-then-fall-back sequence, generalized from a named /dev/shm
// segment to an anonymous (non-shared) mapping since the slot pool is
// private to the receive thread.
func allocateBacking(n int) (data []byte, hugePages bool, release func([]byte) error, err error) {
	data, err = unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB)
	if err == nil {
		return data, true, unix.Munmap, nil
	}

	data, err = unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB|unix.MAP_HUGE_2MB)
	if err == nil {
		return data, true, unix.Munmap, nil
	}

	data, err = alignedAlloc(n)
	if err != nil {
		return nil, false, nil, fmt.Errorf("huge-page and aligned-alloc backing both failed: %w", err)
	}
	return data, false, func([]byte) error { return nil }, nil
}
