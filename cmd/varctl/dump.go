package main

import (
	"fmt"
	"strings"

	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/spf13/cobra"
)

var dumpDepth int

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpDepth, "depth", 0, "maximum depth to print (0 = unlimited)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <snapshot.json>",
		Short: "Reify a snapshot's root variable and print its full IR tree",
		Long: `dump loads a recorded snapshot, runs it through the Generic Parser and
Specialization Layer exactly as a live reification would, and prints the
resulting tree using the render contract (§4.8): name, type, value, and
children.

Example:
  varctl dump testdata/vector.json
  varctl dump testdata/hashmap.json --depth 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func runDump(path string) error {
	built, err := loadBuilt(path)
	if err != nil {
		return err
	}
	printTree(built.Root, 0)
	return nil
}

func printTree(ir *variable.IR, depth int) {
	if dumpDepth > 0 && depth > dumpDepth {
		return
	}
	r := variable.NewRender(ir)
	fmt.Printf("%s%s: %s = %s\n", strings.Repeat("  ", depth), r.Name(), r.Type(), r.Value())
	for _, child := range r.Children() {
		printTree(child, depth+1)
	}
}
