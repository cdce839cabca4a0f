package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/speech"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// visibleRows bounds the property list so long lists scroll.
const visibleRows = 15

// row is one property. name is accepted by lookup and put.
type row struct {
	id    speechsdk.PropertyID
	name  string
	value string
}

type modelState int

const (
	stateBrowse modelState = iota
	stateEdit
	stateAdd
)

type interactiveModel struct {
	err      error
	cfg      *speech.Config
	backend  string
	status   string
	rows     []row
	custom   []string
	inputs   []textinput.Model
	selected int
	offset   int
	focusIdx int
	state    modelState
}

func newInteractiveModel(cfg *speech.Config, backend string) *interactiveModel {
	return &interactiveModel{
		cfg:     cfg,
		backend: backend,
		state:   stateBrowse,
	}
}

type loadedMsg struct {
	err  error
	rows []row
}

type storedMsg struct {
	err error
	key string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

// load reads every SDK property plus the custom names added this session.
func (m *interactiveModel) load() tea.Msg {
	ids := speechsdk.PropertyIDs()
	rows := make([]row, 0, len(ids)+len(m.custom))
	for _, id := range ids {
		v, err := m.cfg.GetByID(id)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("get %s: %w", id, err)}
		}
		rows = append(rows, row{id: id, name: id.String(), value: v})
	}
	for _, name := range m.custom {
		v, err := m.cfg.GetByName(name)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("get %s: %w", name, err)}
		}
		rows = append(rows, row{id: speechsdk.PropertyIDByName, name: name, value: v})
	}
	return loadedMsg{rows: rows}
}

func (m *interactiveModel) store(key, value string) tea.Cmd {
	return func() tea.Msg {
		return storedMsg{key: key, err: put(m.cfg, key, value)}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateBrowse {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
				m.scroll()
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.rows)-1 {
				m.selected++
				m.scroll()
			}

		case "n":
			if m.state == stateBrowse {
				m.prepareInputs("", "")
				m.state = stateAdd
				return m, nil
			}

		case "r":
			if m.state == stateBrowse {
				return m, m.load
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.rows) == 0 {
					return m, nil
				}
				r := m.rows[m.selected]
				m.prepareInputs(r.name, r.value)
				m.state = stateEdit
				return m, nil

			case stateEdit:
				key := m.rows[m.selected].name
				m.state = stateBrowse
				return m, m.store(key, m.inputs[0].Value())

			case stateAdd:
				name := strings.TrimSpace(m.inputs[0].Value())
				if name == "" {
					m.status = "name must not be empty"
					return m, nil
				}
				if _, ok := resolve(name); !ok && !slices.Contains(m.custom, name) {
					m.custom = append(m.custom, name)
				}
				m.state = stateBrowse
				return m, m.store(name, m.inputs[1].Value())
			}

		case "tab":
			if m.state == stateAdd {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state != stateBrowse {
				m.state = stateBrowse
				m.inputs = nil
			}
		}

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			if m.selected >= len(m.rows) {
				m.selected = max(len(m.rows)-1, 0)
			}
		}
		return m, nil

	case storedMsg:
		m.inputs = nil
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("set %s: %v", msg.key, msg.err))
			return m, nil
		}
		m.status = "stored " + msg.key
		return m, m.load
	}

	if m.state != stateBrowse {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visibleRows {
		m.offset = m.selected - visibleRows + 1
	}
}

func (m *interactiveModel) prepareInputs(name, value string) {
	valueInput := textinput.New()
	valueInput.Prompt = "value: "
	valueInput.Width = 60
	valueInput.SetValue(value)

	if m.state == stateBrowse && name != "" {
		valueInput.Focus()
		m.inputs = []textinput.Model{valueInput}
		m.focusIdx = 0
		return
	}

	nameInput := textinput.New()
	nameInput.Prompt = "name: "
	nameInput.Placeholder = "id, SDK name or custom name"
	nameInput.Width = 60
	nameInput.Focus()
	m.inputs = []textinput.Model{nameInput, valueInput}
	m.focusIdx = 0
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}

	if m.rows == nil {
		return "Loading properties..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Speech Config Properties"))
	b.WriteString(" ")
	b.WriteString(m.backend)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		end := min(m.offset+visibleRows, len(m.rows))
		for i := m.offset; i < end; i++ {
			line := m.formatRow(m.rows[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(m.status)
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • n new • r reload • q quit"))

	case stateEdit:
		r := m.rows[m.selected]
		b.WriteString(fmt.Sprintf("Editing %s\n\n", nameStyle.Render(r.name)))
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter store • esc back"))

	case stateAdd:
		b.WriteString("New property\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter store • esc back"))
	}

	return b.String()
}

func (m *interactiveModel) formatRow(r row) string {
	id := "name"
	if r.id != speechsdk.PropertyIDByName {
		id = fmt.Sprintf("%d", int32(r.id))
	}
	return fmt.Sprintf("%s %s = %s",
		idStyle.Render(fmt.Sprintf("%5s", id)),
		nameStyle.Render(r.name),
		valueStyle.Render(mask(r.id, r.value)))
}

func runInteractive(cfg *speech.Config, backend string) error {
	p := tea.NewProgram(newInteractiveModel(cfg, backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
