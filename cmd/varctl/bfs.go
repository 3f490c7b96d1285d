package main

import (
	"fmt"

	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/spf13/cobra"
)

var bfsName string

func init() {
	cmd := newBFSCmd()
	cmd.Flags().StringVar(&bfsName, "name", "", "stop at and print the first descendant with this name")
	rootCmd.AddCommand(cmd)
}

func newBFSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bfs <snapshot.json>",
		Short: "Print BFS visitation order over a reified snapshot's IR tree",
		Long: `bfs reifies a snapshot's root variable and walks it breadth-first
(§4.6), printing every visited node's display name in order. With --name,
it instead prints only the first descendant whose name matches (the BFS
landmark lookup specialization and selection rely on).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBFS(args[0])
		},
	}
}

func runBFS(path string) error {
	built, err := loadBuilt(path)
	if err != nil {
		return err
	}

	if bfsName != "" {
		n := locator.FieldByName(built.Root, bfsName)
		if n == nil {
			return fmt.Errorf("no descendant named %q", bfsName)
		}
		r := variable.NewRender(n)
		fmt.Printf("%s: %s = %s\n", r.Name(), r.Type(), r.Value())
		return nil
	}

	locator.BFS(built.Root, func(n *variable.IR) bool {
		fmt.Println(variable.NewRender(n).Name())
		return true
	})
	return nil
}
