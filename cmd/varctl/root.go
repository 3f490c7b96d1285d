package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool
	livePID int32
)

var rootCmd = &cobra.Command{
	Use:   "varctl",
	Short: "Inspect recorded variable reification snapshots",
	Long: `varctl drives the variable reification core against a recorded
snapshot (a JSON fixture of a type graph, captured memory regions, and a
root variable) instead of a live inferior process, for offline inspection
and scripting.

With --pid, the snapshot still supplies the type graph and the root
variable's location, but bytes are read live from that process through
internal/ptracemem instead of the snapshot's recorded memory regions. The
inferior must already be ptrace-stopped by an external step/breakpoint
driver (§5 of the reification spec); varctl never attaches, detaches, or
resumes it.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "has no effect; every subcommand prints plain text")
	rootCmd.PersistentFlags().Int32Var(&livePID, "pid", 0, "read memory live from this inferior pid instead of the snapshot's recorded regions")
}

func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "diag: "+format+"\n", args...)
	}
}
