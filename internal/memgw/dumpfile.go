package memgw

import (
	"sort"
	"sync"

	"github.com/joshuapare/varcore/internal/buf"
	"github.com/joshuapare/varcore/internal/mmfile"
)

// Region describes one contiguous mapped segment of an inferior's address
// space as captured into a flat dump file: the bytes at file offset
// [FileOffset, FileOffset+Len) correspond to inferior addresses
// [BaseAddr, BaseAddr+Len).
type Region struct {
	BaseAddr   Addr
	Len        int
	FileOffset int64
}

// DumpFile is a Gateway backed by a memory-mapped core-dump-style file
// rather than a live ptrace-stopped process: post-mortem or offline
// analysis of a previously captured snapshot. It never issues process
// syscalls; every Read is satisfied out of the mapped pages.
type DumpFile struct {
	mu      sync.RWMutex
	data    []byte
	cleanup func() error
	regions []Region
}

// OpenDumpFile memory-maps path and indexes it by regions, sorted by
// BaseAddr so Read can binary-search the containing region.
func OpenDumpFile(path string, regions []Region) (*DumpFile, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	sorted := append([]Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BaseAddr < sorted[j].BaseAddr })
	return &DumpFile{data: data, cleanup: cleanup, regions: sorted}, nil
}

// Close unmaps the underlying file.
func (d *DumpFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cleanup == nil {
		return nil
	}
	return d.cleanup()
}

// Read implements Gateway by locating the region containing [addr,
// addr+n) and slicing its bytes out of the mapped file.
func (d *DumpFile) Read(pid PID, addr Addr, n int) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := sort.Search(len(d.regions), func(i int) bool { return d.regions[i].BaseAddr+Addr(d.regions[i].Len) > addr })
	if i == len(d.regions) || d.regions[i].BaseAddr > addr {
		return nil, Fail(ReasonBadAddress, pid, addr, n, nil)
	}
	r := d.regions[i]
	off := int(addr - r.BaseAddr)
	if off+n > r.Len {
		return nil, Fail(ReasonShortRead, pid, addr, n, nil)
	}
	b, ok := buf.Slice(d.data, int(r.FileOffset)+off, n)
	if !ok {
		return nil, Fail(ReasonShortRead, pid, addr, n, nil)
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

var _ Gateway = (*DumpFile)(nil)
