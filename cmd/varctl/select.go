package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/varcore/internal/selection"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/spf13/cobra"
)

var (
	selectPath  string
	selectSlice uint64
)

func init() {
	cmd := newSelectCmd()
	cmd.Flags().StringVar(&selectPath, "path", "", `navigation path, e.g. "items[2]" or "next.*.value"`)
	cmd.Flags().Uint64Var(&selectSlice, "slice", 0, "append a final Slice(len) step (only valid on a pointer)")
	rootCmd.AddCommand(cmd)
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <snapshot.json>",
		Short: "Navigate a reified snapshot's IR tree with a selection plan",
		Long: `select reifies a snapshot's root variable and applies a selection plan
(§4.7) built from --path, a small dotted-path DSL:

  name        Field(name)
  name[N]     Field(name), then Index(N)
  [N]         Index(N)
  *           Deref

Example:
  varctl select testdata/vector.json --path "[1]"
  varctl select testdata/linked_list.json --path "next.*.value"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(args[0])
		},
	}
}

func parsePath(path string) (selection.Plan, error) {
	var plan selection.Plan
	if path == "" {
		return plan, nil
	}
	for _, token := range strings.Split(path, ".") {
		if token == "" {
			continue
		}
		if token == "*" {
			plan = append(plan, selection.Op{Kind: selection.OpDeref})
			continue
		}
		name := token
		var idx uint64
		hasIdx := false
		if open := strings.IndexByte(token, '['); open >= 0 {
			if !strings.HasSuffix(token, "]") {
				return nil, fmt.Errorf("malformed path segment %q", token)
			}
			name = token[:open]
			n, err := strconv.ParseUint(token[open+1:len(token)-1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad index in %q: %w", token, err)
			}
			idx = n
			hasIdx = true
		}
		if name != "" {
			plan = append(plan, selection.Op{Kind: selection.OpField, Name: name})
		}
		if hasIdx {
			plan = append(plan, selection.Op{Kind: selection.OpIndex, Index: idx})
		}
	}
	return plan, nil
}

func runSelect(path string) error {
	built, err := loadBuilt(path)
	if err != nil {
		return err
	}

	plan, err := parsePath(selectPath)
	if err != nil {
		return err
	}
	if selectSlice > 0 {
		plan = append(plan, selection.Op{Kind: selection.OpSlice, Len: selectSlice})
	}

	engine := selection.New(built.Parser)
	result := engine.Apply(built.Ctx, built.Root, plan)
	r := variable.NewRender(result)
	fmt.Printf("%s: %s = %s\n", r.Name(), r.Type(), r.Value())
	return nil
}
