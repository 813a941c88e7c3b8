package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/recview/poly"
)

type interactiveModel struct {
	err      error
	input    textinput.Model
	filename string
	status   string
	polys    []poly.Polygon
	header   poly.Header
	maxBytes int
	selected int
	state    modelState
	loaded   bool
}

type modelState int

const (
	stateBrowse modelState = iota
	stateJump
)

func newInteractiveModel(filename string, maxBytes int) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "index"
	ti.Prompt = "polygon: "
	ti.Width = 10
	ti.CharLimit = 10

	return &interactiveModel{
		filename: filename,
		maxBytes: maxBytes,
		input:    ti,
		state:    stateBrowse,
	}
}

type loadedMsg struct {
	err    error
	polys  []poly.Polygon
	header poly.Header
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	h, polys, err := readPolygons(m.filename, m.maxBytes)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{header: h, polys: polys}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateJump {
			return m.updateJump(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.polys)-1 {
				m.selected++
			}

		case "home", "g":
			m.selected = 0

		case "end", "G":
			if len(m.polys) > 0 {
				m.selected = len(m.polys) - 1
			}

		case "/", ":":
			if len(m.polys) > 0 {
				m.state = stateJump
				m.status = ""
				m.input.SetValue("")
				return m, m.input.Focus()
			}
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.header = msg.header
		m.polys = msg.polys
	}

	return m, nil
}

func (m *interactiveModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = stateBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		m.state = stateBrowse
		m.input.Blur()
		idx, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || idx < 0 || idx >= len(m.polys) {
			m.status = fmt.Sprintf("no polygon %q (0-%d)", m.input.Value(), len(m.polys)-1)
			return m, nil
		}
		m.selected = idx
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading polygons..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Polygon Viewer"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("code "))
	b.WriteString(fmt.Sprintf("%#x  ", m.header.Code))
	b.WriteString(labelStyle.Render("box "))
	b.WriteString(formatBox(m.header.Box))
	b.WriteString("\n\n")

	if len(m.polys) == 0 {
		b.WriteString("File holds no polygons.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	for i, p := range m.polys {
		line := fmt.Sprintf("polygon %d  %d points", i, len(p))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	p := m.polys[m.selected]
	for _, pt := range p {
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(formatPoint(pt)))
		b.WriteString("\n")
	}
	if box, err := poly.BoundingBox([]poly.Polygon{p}); err == nil {
		b.WriteString(labelStyle.Render("  bounds "))
		b.WriteString(fieldStyle.Render(formatBox(box)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.state == stateJump {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter jump • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • / jump • g/G first/last • q quit"))
	}

	return b.String()
}

func runInteractive(filename string, maxBytes int) error {
	p := tea.NewProgram(newInteractiveModel(filename, maxBytes), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
