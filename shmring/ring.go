package shmring

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ringMagic marks a segment as fully initialized. Readers (and a second
// producer racing a crashed first one) must never trust Head/Tail/Capacity
// until this is in place — see matrix.go's init() in the teacher for the
// same "don't trust the mapping until you've seen the sentinel" idea,
// generalized here into an explicit field instead of an implicit
// all-zeros-means-uninitialized convention.
const ringMagic uint64 = 0xB0B0FEEDCAFEBEEF

const cacheLine = 64

// paddedCounter keeps a single atomic counter alone on its own cache line,
// the same false-sharing concern the teacher's ShmBboMessage padding and
// the pool package's paddedHead address.
type paddedCounter struct {
	v atomic.Uint64
	_ [cacheLine - 8]byte
}

// ringHeader sits at the front of the mapped segment. Head is producer-
// owned, Tail is consumer-owned; each lives on its own cache line so the
// two sides never contend.
type ringHeader struct {
	Magic    uint64
	Capacity uint64
	_        [cacheLine - 16]byte
	Head     paddedCounter
	Tail     paddedCounter
}

var headerSize = int(unsafe.Sizeof(ringHeader{}))

func init() {
	if headerSize != 3*cacheLine {
		panic(fmt.Sprintf("shmring: ringHeader size is %d, expected %d", headerSize, 3*cacheLine))
	}
}

// Ring is a bounded SPSC ring buffer over a POSIX shared-memory segment.
// Exactly one process may call TryPublish; any number may read Tail/Head
// and the record slots, but this type only implements the producer side.
type Ring struct {
	path     string
	data     []byte
	hdr      *ringHeader
	records  []Record
	mask     uint64
	capacity uint64
}

func segmentPath(name string) string {
	return "/dev/shm/bbo_ring_" + name
}

func segmentSize(capacity int) int {
	return headerSize + capacity*RecordSize
}

func mapHeader(data []byte) *ringHeader {
	return (*ringHeader)(unsafe.Pointer(&data[0]))
}

func mapRecords(data []byte, capacity int) []Record {
	return unsafe.Slice((*Record)(unsafe.Pointer(&data[headerSize])), capacity)
}

// Open attaches to the named ring, creating and placement-initializing the
// backing segment if it doesn't already exist or if what's there is stale
// (wrong magic, wrong capacity — most likely a segment left behind by a
// crashed prior run). capacity must be a power of two.
func Open(name string, capacity int) (*Ring, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("shmring: capacity must be a power of two, got %d", capacity)
	}
	path := segmentPath(name)
	size := segmentSize(capacity)

	if r, ok := tryAttachExisting(path, capacity, size); ok {
		return r, nil
	}

	// Stale or absent: unlink whatever's there and create fresh. Remove
	// errors (including ENOENT) are not fatal, the O_CREATE below is
	// what actually matters.
	_ = os.Remove(path)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("shmring: create %s: %w", path, err)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		return nil, fmt.Errorf("shmring: truncate %s: %w", path, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shmring: mmap %s: %w", path, err)
	}

	hdr := mapHeader(data)
	hdr.Capacity = uint64(capacity)
	hdr.Head.v.Store(0)
	hdr.Tail.v.Store(0)
	hdr.Magic = ringMagic // written last: the initialized sentinel

	return &Ring{
		path:     path,
		data:     data,
		hdr:      hdr,
		records:  mapRecords(data, capacity),
		mask:     uint64(capacity - 1),
		capacity: uint64(capacity),
	}, nil
}

// tryAttachExisting opens path without O_CREATE and validates the header
// sentinel and capacity. Any failure along the way (doesn't exist, wrong
// size, stale magic, capacity mismatch) is reported as ok=false so the
// caller falls through to create-fresh.
func tryAttachExisting(path string, capacity, size int) (*Ring, bool) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() != int64(size) {
		return nil, false
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, false
	}

	hdr := mapHeader(data)
	if hdr.Magic != ringMagic || hdr.Capacity != uint64(capacity) {
		_ = unix.Munmap(data)
		return nil, false
	}

	return &Ring{
		path:     path,
		data:     data,
		hdr:      hdr,
		records:  mapRecords(data, capacity),
		mask:     uint64(capacity - 1),
		capacity: uint64(capacity),
	}, true
}

// TryPublish copies rec into the next free slot and advances Head. It
// never blocks: if the consumer hasn't kept up and the ring is full, it
// returns false and leaves rec unpublished.
func (r *Ring) TryPublish(rec *Record) bool {
	head := r.hdr.Head.v.Load()
	tail := r.hdr.Tail.v.Load()
	if head-tail >= r.capacity {
		return false
	}
	r.records[head&r.mask] = *rec
	r.hdr.Head.v.Store(head + 1)
	return true
}

// Len reports the number of records a consumer has not yet drained.
func (r *Ring) Len() uint64 {
	return r.hdr.Head.v.Load() - r.hdr.Tail.v.Load()
}

// Capacity is the ring's slot count.
func (r *Ring) Capacity() int {
	return int(r.capacity)
}

// Close unmaps the segment. It does not unlink the file: a consumer may
// still be attached.
func (r *Ring) Close() error {
	return unix.Munmap(r.data)
}
