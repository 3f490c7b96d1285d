package main

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/varcore/internal/selection"
	"github.com/joshuapare/varcore/pkg/variable"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.help = !m.help
			return m, nil
		case "enter", "l", "right":
			return m.descend()
		case "backspace", "h", "left":
			return m.ascend()
		case "d":
			return m.deref()
		case "y":
			r := variable.NewRender(m.current())
			if err := clipboard.WriteAll(r.Value()); err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "copied " + r.Name() + " to clipboard"
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// descend pushes the currently selected child as the new navigation level.
func (m Model) descend() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(childItem)
	if !ok {
		return m, nil
	}
	if len(variable.NewRender(item.ir).Children()) == 0 {
		m.status = "no children to expand"
		return m, nil
	}
	m.stack = append(m.stack, item.ir)
	m.names = append(m.names, variable.NewRender(item.ir).Name())
	m.list = newChildList(item.ir)
	m.list.SetSize(m.width, m.height-4)
	m.status = ""
	return m, nil
}

// ascend pops back to the parent navigation level.
func (m Model) ascend() (tea.Model, tea.Cmd) {
	if len(m.stack) <= 1 {
		return m, nil
	}
	m.stack = m.stack[:len(m.stack)-1]
	m.names = m.names[:len(m.names)-1]
	m.list = newChildList(m.current())
	m.list.SetSize(m.width, m.height-4)
	m.status = ""
	return m, nil
}

// deref applies a single Deref selection step (§4.7) to the currently
// selected child, pushing the dereferenced value as a new navigation level.
func (m Model) deref() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(childItem)
	if !ok {
		return m, nil
	}
	result := m.engine.Apply(m.built.Ctx, item.ir, selection.Plan{{Kind: selection.OpDeref}})
	if result == nil || (result.Kind == variable.KindScalar && !result.HasScalar) {
		m.status = "cannot dereference " + variable.NewRender(item.ir).Name()
		return m, nil
	}
	m.stack = append(m.stack, result)
	m.names = append(m.names, "*"+variable.NewRender(item.ir).Name())
	m.list = newChildList(result)
	m.list.SetSize(m.width, m.height-4)
	m.status = ""
	return m, nil
}
