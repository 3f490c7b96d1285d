package main

import (
	"fmt"

	"github.com/joshuapare/varcore/internal/fixture"
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/ptracemem"
)

// loadBuilt loads the snapshot at path and reifies its root variable. By
// default bytes come from the snapshot's own recorded memory regions; with
// --pid set, the same type graph and root descriptor are instead reified
// against a live process through internal/ptracemem, exercising the real
// process_vm_readv/PTRACE_PEEKDATA Memory Gateway rather than a recording.
func loadBuilt(path string) (*fixture.Built, error) {
	snap, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	diag := func(format string, fargs ...any) { printVerbose(format, fargs...) }

	if livePID != 0 {
		built, err := snap.BuildWithGateway(ptracemem.New(), memgw.PID(livePID), diag)
		if err != nil {
			return nil, fmt.Errorf("building snapshot against live pid %d: %w", livePID, err)
		}
		return built, nil
	}

	built, err := snap.Build(diag)
	if err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}
	return built, nil
}
