package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/shabarini/focus-app/internal/engine"
	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/model"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeFilter
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	engine *engine.Engine

	// One task list per section, refreshed from the engine after
	// every mutation and on remote pushes.
	tasks   map[model.Section][]model.Task
	section int // index into model.Sections()
	cursor  int

	// Sync status updates arrive on this channel from the engine
	// callback and are turned into bubbletea messages.
	statusChan chan engine.Status
	syncStatus engine.Status

	// UI state
	width  int
	height int
	mode   Mode

	// Input
	input      textinput.Model
	filterText string

	message string
}

// NewModel creates a new TUI model on top of a loaded engine.
func NewModel(e *engine.Engine) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = model.MaxTextLen
	ti.Width = 50

	m := Model{
		engine:     e,
		tasks:      make(map[model.Section][]model.Task),
		input:      ti,
		statusChan: make(chan engine.Status, 8),
		syncStatus: e.Status(),
	}

	e.OnStatusChange(func(s engine.Status) {
		// Non-blocking send, the UI only needs the latest state.
		select {
		case m.statusChan <- s:
		default:
		}
	})

	m.loadData()
	return m
}

func (m *Model) loadData() {
	for _, sec := range model.Sections() {
		m.tasks[sec] = m.engine.ListSection(sec, m.filterText, "", "")
	}
	if m.cursor >= len(m.currentTasks()) {
		m.cursor = 0
	}
}

func (m *Model) currentSection() model.Section {
	return model.Sections()[m.section]
}

func (m *Model) currentTasks() []model.Task {
	return m.tasks[m.currentSection()]
}

func (m *Model) currentTask() *model.Task {
	tasks := m.currentTasks()
	if m.cursor < len(tasks) {
		return &tasks[m.cursor]
	}
	return nil
}
