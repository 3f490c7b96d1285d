package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/varcore/cmd/varexplore/logger"
	"github.com/joshuapare/varcore/internal/fixture"
	"github.com/joshuapare/varcore/internal/selection"
	"github.com/joshuapare/varcore/pkg/variable"
)

// childItem adapts one IR child to bubbles/list's Item/DefaultItem
// interfaces, rendered as "name: type = value".
type childItem struct {
	ir *variable.IR
}

func (c childItem) Title() string {
	return variable.NewRender(c.ir).Name()
}

func (c childItem) Description() string {
	r := variable.NewRender(c.ir)
	return fmt.Sprintf("%s = %s", r.Type(), r.Value())
}

func (c childItem) FilterValue() string { return c.Title() }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pathStyle   = lipgloss.NewStyle().Faint(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// Model is the varexplore TUI: a single navigable list of the current IR
// node's children, with a breadcrumb stack standing in for the tree pane
// the teacher TUI splits into a separate widget.
type Model struct {
	built *fixture.Built
	engine *selection.Engine

	stack []*variable.IR
	names []string

	list   list.Model
	help   bool
	width  int
	height int

	status string
}

// NewModel loads the snapshot at path and reifies its root variable.
func NewModel(path string) (Model, error) {
	snap, err := fixture.Load(path)
	if err != nil {
		return Model{}, err
	}
	built, err := snap.Build(func(format string, args ...any) { logger.Debug(fmt.Sprintf(format, args...)) })
	if err != nil {
		return Model{}, fmt.Errorf("building snapshot: %w", err)
	}

	m := Model{
		built:  built,
		engine: selection.New(built.Parser),
		stack:  []*variable.IR{built.Root},
		names:  []string{variable.NewRender(built.Root).Name()},
	}
	m.list = newChildList(built.Root)
	return m, nil
}

func newChildList(ir *variable.IR) list.Model {
	children := variable.NewRender(ir).Children()
	items := make([]list.Item, 0, len(children))
	for _, c := range children {
		items = append(items, childItem{ir: c})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = variable.NewRender(ir).Name()
	l.SetShowStatusBar(false)
	return l
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) current() *variable.IR {
	return m.stack[len(m.stack)-1]
}

func (m Model) breadcrumb() string {
	return pathStyle.Render(strings.Join(m.names, " / "))
}
