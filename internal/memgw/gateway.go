// Package memgw is the single entry point for cross-process reads. Every
// byte the core reads from an inferior passes through a Gateway; no other
// package talks to process memory directly.
package memgw

import (
	"fmt"

	"github.com/joshuapare/varcore/pkg/varerr"
)

// PID identifies the inferior process. Opaque to the core beyond being a
// Gateway argument.
type PID int32

// Addr is a target-process virtual address.
type Addr uint64

// Gateway reads raw bytes out of a stopped inferior.
//
// Read MUST return exactly n bytes on success. A short read is a protocol
// error, not a success-with-truncation: implementations must turn it into
// a *varerr.Error of kind KindMemory.
type Gateway interface {
	Read(pid PID, addr Addr, n int) ([]byte, error)
}

// failReason categorizes why a read failed, independent of the concrete
// Gateway implementation (ptrace, /proc/pid/mem, a test fixture, ...).
type failReason int

const (
	ReasonPermission failReason = iota
	ReasonBadAddress
	ReasonShortRead
)

func (r failReason) String() string {
	switch r {
	case ReasonPermission:
		return "permission denied"
	case ReasonBadAddress:
		return "bad address"
	case ReasonShortRead:
		return "short read"
	default:
		return "unknown"
	}
}

// Fail builds the categorized *varerr.Error a Gateway implementation
// returns on failure.
func Fail(reason failReason, pid PID, addr Addr, n int, cause error) error {
	msg := fmt.Sprintf("read(pid=%d, addr=%#x, n=%d): %s", pid, uint64(addr), n, reason)
	return varerr.Wrap(varerr.KindMemory, cause, "%s", msg)
}
