package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blobkit/blobkit"
	"github.com/blobkit/blobkit/lifecycle"
	"github.com/blobkit/blobkit/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	ownerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateAddFile
)

// eventLog collects lifecycle events from the manager's goroutines for
// the next UI refresh.
type eventLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *eventLog) OnLifecycleEvent(e lifecycle.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%-8s %s (%s, %d bytes)", e.Type, e.Handle, e.Owner, e.Size))
	if len(l.lines) > 8 {
		l.lines = l.lines[len(l.lines)-8:]
	}
}

func (l *eventLog) tail() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

type interactiveModel struct {
	mgr      *lifecycle.Manager
	owner    string
	log      *eventLog
	entries  []registry.Entry
	selected int
	state    modelState
	input    textinput.Model
	err      error
}

type tickMsg time.Time

func newInteractiveModel(mgr *lifecycle.Manager, owner string, log *eventLog) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "path/to/file"
	return &interactiveModel{
		mgr:   mgr,
		owner: owner,
		log:   log,
		state: stateBrowse,
		input: ti,
	}
}

func runInteractive(mgr *lifecycle.Manager, owner string) error {
	log := &eventLog{}
	mgr.Subscribe(log)
	defer mgr.Unsubscribe(log)

	m := newInteractiveModel(mgr, owner, log)
	m.refresh()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *interactiveModel) Init() tea.Cmd {
	return tick()
}

func (m *interactiveModel) refresh() {
	m.entries = m.mgr.Entries()
	if m.selected >= len(m.entries) {
		m.selected = len(m.entries) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		if m.state == stateAddFile {
			return m.updateAddFile(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "r":
			if e, ok := m.current(); ok {
				m.mgr.Revoke(e.Handle)
				m.refresh()
			}

		case "o":
			if e, ok := m.current(); ok {
				m.mgr.RevokeByOwner(e.Owner)
				m.refresh()
			}

		case "s":
			m.mgr.SweepStale(lifecycle.DefaultStaleAge)
			m.refresh()

		case "t":
			m.mgr.TeardownAll()
			m.refresh()

		case "a":
			m.state = stateAddFile
			m.input.SetValue("")
			m.input.Focus()
			m.err = nil
		}
	}

	return m, nil
}

func (m *interactiveModel) updateAddFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.input.Value())
		m.state = stateBrowse
		m.input.Blur()
		if path == "" {
			return m, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			m.err = err
			return m, nil
		}
		if _, err := m.mgr.Create(blobkit.Resource{
			Data: data,
			MIME: mimeFor(path),
			Meta: map[string]string{"source": path},
		}, m.owner); err != nil {
			m.err = err
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) current() (registry.Entry, bool) {
	if len(m.entries) == 0 || m.selected >= len(m.entries) {
		return registry.Entry{}, false
	}
	return m.entries[m.selected], true
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	s := m.mgr.GlobalStats()
	b.WriteString(titleStyle.Render(fmt.Sprintf(" blobctl — %d handles, %d bytes ", s.TotalCount, s.TotalBytes)))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(helpStyle.Render("no active handles"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%s  %s  %s  %6d bytes  hits %d",
			handleStyle.Render(string(e.Handle)),
			ownerStyle.Render(e.Owner),
			e.MIME,
			e.Size,
			e.AccessCount)
		if i == m.selected && m.state == stateBrowse {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.state == stateAddFile {
		b.WriteString("\nload file: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	if lines := m.log.tail(); len(lines) > 0 {
		b.WriteString("\n")
		for _, l := range lines {
			b.WriteString(eventStyle.Render(l))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • a add • r revoke • o revoke owner • s sweep • t teardown • q quit"))
	return b.String()
}
