//go:build linux

package ptracemem

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/varcore/internal/memgw"
)

// readMemory reads exactly n bytes at addr from pid's address space.
//
// process_vm_readv is attempted first: it is a single syscall and does not
// require the caller to already be the ptrace tracer. If it fails with
// EPERM or ENOSYS (e.g. inside a container without CAP_SYS_PTRACE, or on a
// kernel built without CONFIG_CROSS_MEMORY_ATTACH) we fall back to
// PTRACE_PEEKDATA, which requires the caller to be the tracer already
// attached and the inferior to be ptrace-stopped.
func readMemory(pid memgw.PID, addr memgw.Addr, n int) ([]byte, error) {
	if n < 0 {
		return nil, memgw.Fail(memgw.ReasonBadAddress, pid, addr, n, errors.New("negative length"))
	}
	if n == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, n)
	local := []unix.Iovec{{Base: &buf[0], Len: uint64(n)}}
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: n}}

	got, err := unix.ProcessVMReadv(int(pid), local, remote, 0)
	if err == nil && got == n {
		return buf, nil
	}
	if err != nil && !errors.Is(err, unix.EPERM) && !errors.Is(err, unix.ENOSYS) {
		return nil, memgw.Fail(memgw.ReasonPermission, pid, addr, n, err)
	}
	if err == nil && got != n {
		return nil, memgw.Fail(memgw.ReasonShortRead, pid, addr, n, nil)
	}

	return readMemoryPtrace(pid, addr, n)
}

// readMemoryPtrace reads via PTRACE_PEEKDATA, word by word. Used only as a
// fallback: it is far slower than process_vm_readv for large reads (one
// syscall per word-size chunk).
func readMemoryPtrace(pid memgw.PID, addr memgw.Addr, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	a := uintptr(addr)
	for len(out) < n {
		data := make([]byte, 8)
		c, err := unix.PtracePeekData(int(pid), a, data)
		if err != nil {
			return nil, memgw.Fail(memgw.ReasonPermission, pid, memgw.Addr(a), n, err)
		}
		if c <= 0 {
			return nil, memgw.Fail(memgw.ReasonShortRead, pid, memgw.Addr(a), n, nil)
		}
		take := c
		if len(out)+take > n {
			take = n - len(out)
		}
		out = append(out, data[:take]...)
		a += uintptr(c)
	}
	return out, nil
}
