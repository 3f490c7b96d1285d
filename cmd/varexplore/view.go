package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/varcore/pkg/variable"
)

var helpBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(1, 2).
	BorderForeground(lipgloss.Color("212"))

// helpModel is a static tea.Model rendering the keybinding cheat sheet,
// used only as the foreground of a bubbletea-overlay pop-up.
type helpModel struct{}

func (helpModel) Init() tea.Cmd                           { return nil }
func (helpModel) Update(tea.Msg) (tea.Model, tea.Cmd)      { return helpModel{}, nil }
func (helpModel) View() string {
	return helpBoxStyle.Render(
		"enter / l   expand selected\n" +
			"backspace/h collapse to parent\n" +
			"d           dereference a pointer\n" +
			"y           copy value to clipboard\n" +
			"?           toggle this help\n" +
			"q           quit",
	)
}

func (m Model) View() string {
	if m.help {
		return overlay.New(helpModel{}, baseView{m}, overlay.Center, overlay.Center, 0, 0).View()
	}
	return baseView{m}.View()
}

// baseView renders the normal (non-overlay) screen; split out so it can
// serve as the background model passed to the help overlay above.
type baseView struct{ m Model }

func (b baseView) Init() tea.Cmd                      { return nil }
func (b baseView) Update(tea.Msg) (tea.Model, tea.Cmd) { return b, nil }

func (b baseView) View() string {
	m := b.m
	r := variable.NewRender(m.current())
	header := headerStyle.Render(fmt.Sprintf("%s: %s = %s", r.Name(), r.Type(), r.Value()))
	status := footerStyle.Render(m.status + "  [enter] expand  [backspace] up  [d] deref  [y] copy  [?] help  [q] quit")
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.breadcrumb(),
		m.list.View(),
		status,
	)
}
