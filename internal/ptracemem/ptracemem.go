// Package ptracemem is a Memory Gateway implementation for Linux inferiors.
// It reads the target's address space either through process_vm_readv (one
// syscall, no ptrace attach required beyond the usual yama/ptrace scope
// rules) or, on EPERM/ENOSYS, falls back to PTRACE_PEEKDATA word reads. The
// inferior MUST already be ptrace-stopped by the caller's step/breakpoint
// driver; this package never attaches, detaches, or resumes it (§5 of the
// reification spec: that precondition is the caller's responsibility).
package ptracemem

import (
	"github.com/joshuapare/varcore/internal/memgw"
)

// Gateway reads another process's memory via the kernel, never by holding
// the bytes in this process's own address space.
type Gateway struct{}

// New returns a ptrace/process_vm_readv backed Gateway.
func New() *Gateway { return &Gateway{} }

// Read implements memgw.Gateway.
func (g *Gateway) Read(pid memgw.PID, addr memgw.Addr, n int) ([]byte, error) {
	return readMemory(pid, addr, n)
}

var _ memgw.Gateway = (*Gateway)(nil)
