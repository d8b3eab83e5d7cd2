package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHistory is the number of evaluations kept on screen.
const maxHistory = 8

type interactiveModel struct {
	session  *session
	input    textinput.Model
	methods  []string
	history  []entry
	selected int
	state    modelState
}

type entry struct {
	err    error
	src    string
	result string
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInput
)

type evalResultMsg struct {
	entry entry
}

func newInteractiveModel(s *session) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "JavaScript expression"
	ti.Width = 60

	return &interactiveModel{
		session: s,
		input:   ti,
		methods: s.addon.Methods(),
		state:   stateSelectFunc,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectFunc {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.methods)-1 {
				m.selected++
			}

		case "tab":
			if m.state == stateSelectFunc {
				m.state = stateInput
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.methods) == 0 {
					return m, nil
				}
				m.state = stateInput
				m.input.SetValue("demo." + m.methods[m.selected] + "(")
				m.input.CursorEnd()
				m.input.Focus()
				return m, textinput.Blink

			case stateInput:
				src := strings.TrimSpace(m.input.Value())
				if src == "" {
					return m, nil
				}
				m.input.SetValue("")
				return m, m.evaluate(src)
			}

		case "esc":
			if m.state == stateInput {
				m.state = stateSelectFunc
				m.input.Blur()
			}
		}

	case evalResultMsg:
		m.history = append(m.history, msg.entry)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		return m, nil
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) evaluate(src string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.eval(src)
		return evalResultMsg{entry: entry{src: src, result: out, err: err}}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jsaddon"))
	b.WriteString(" demo addon\n\n")

	for _, e := range m.history {
		b.WriteString(funcStyle.Render(e.src))
		b.WriteString("\n  ")
		if e.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a method:\n\n")
		for i, name := range m.methods {
			line := "demo." + name + "(...)"
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + funcStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • tab free input • q quit"))

	case stateInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter evaluate • esc back • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive(s *session) error {
	if err := s.start(); err != nil {
		return err
	}
	defer s.stop()

	p := tea.NewProgram(newInteractiveModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
