//go:build !linux

package ptracemem

import (
	"fmt"

	"github.com/joshuapare/varcore/internal/memgw"
)

// readMemory is unsupported outside Linux; callers should fall back to
// memgw.Recorded (fixture-driven) or another platform-specific Gateway.
func readMemory(pid memgw.PID, addr memgw.Addr, n int) ([]byte, error) {
	return nil, memgw.Fail(memgw.ReasonPermission, pid, addr, n,
		fmt.Errorf("ptracemem: live inferior reads are only supported on linux"))
}
