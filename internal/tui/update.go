package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shabarini/focus-app/internal/engine"
	"github.com/shabarini/focus-app/internal/model"
)

// statusMsg carries a sync status change from the engine callback.
type statusMsg engine.Status

// Init starts listening for sync status updates.
func (m Model) Init() tea.Cmd {
	return m.waitForStatus()
}

func (m Model) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-m.statusChan)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.syncStatus = engine.Status(msg)
		// A remote push lands as a status change too, refresh the board.
		m.loadData()
		return m, m.waitForStatus()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeEditTask:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.currentTasks())-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Left):
		m.section = (m.section + len(model.Sections()) - 1) % len(model.Sections())
		m.cursor = 0

	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Tab):
		m.section = (m.section + 1) % len(model.Sections())
		m.cursor = 0

	case key.Matches(msg, keys.MoveUp):
		if t := m.currentTask(); t != nil {
			m.engine.MoveTaskUp(m.currentSection(), t.ID)
			m.loadData()
			if m.cursor > 0 {
				m.cursor--
			}
		}

	case key.Matches(msg, keys.MoveDown):
		if t := m.currentTask(); t != nil {
			m.engine.MoveTaskDown(m.currentSection(), t.ID)
			m.loadData()
			if m.cursor < len(m.currentTasks())-1 {
				m.cursor++
			}
		}

	case key.Matches(msg, keys.Add):
		m.mode = ModeAddTask
		m.input.SetValue("")
		m.input.Focus()

	case key.Matches(msg, keys.Edit):
		if t := m.currentTask(); t != nil {
			m.mode = ModeEditTask
			m.input.SetValue(t.Text)
			m.input.Focus()
		}

	case key.Matches(msg, keys.Done):
		if t := m.currentTask(); t != nil && m.currentSection() != model.SectionDone {
			if err := m.engine.MoveTask(t.ID, m.currentSection(), model.SectionDone); err == nil {
				m.message = "Done: " + t.Text
			}
			m.loadData()
		}

	case key.Matches(msg, keys.Move):
		if t := m.currentTask(); t != nil {
			next := model.Sections()[(m.section+1)%len(model.Sections())]
			if err := m.engine.MoveTask(t.ID, m.currentSection(), next); err == nil {
				m.message = fmt.Sprintf("Moved to %s", next)
			}
			m.loadData()
		}

	case key.Matches(msg, keys.Delete):
		if t := m.currentTask(); t != nil {
			if err := m.engine.DeleteTask(m.currentSection(), t.ID); err == nil {
				m.message = "Deleted: " + t.Text
			}
			m.loadData()
		}

	case key.Matches(msg, keys.Archive):
		moved := m.engine.ArchiveDone()
		m.message = fmt.Sprintf("Archived %d task(s)", moved)
		m.loadData()

	case key.Matches(msg, keys.Filter):
		m.mode = ModeFilter
		m.input.SetValue(m.filterText)
		m.input.Focus()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text != "" {
			var err error
			if m.mode == ModeAddTask {
				_, err = m.engine.AddTask(m.currentSection(), text, "", "", nil, nil)
			} else if t := m.currentTask(); t != nil {
				err = m.engine.UpdateTaskText(m.currentSection(), t.ID, text)
			}
			if err != nil {
				m.message = err.Error()
			}
			m.loadData()
		}
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.filterText = ""
		m.input.Blur()
		m.loadData()
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filterText = m.input.Value()
	m.loadData()
	return m, cmd
}
