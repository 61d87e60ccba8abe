package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shabarini/focus-app/internal/engine"
	"github.com/shabarini/focus-app/internal/model"
)

var sectionTitles = map[model.Section]string{
	model.SectionToday: "Today",
	model.SectionTodo:  "To Do",
	model.SectionDone:  "Done",
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	columns := make([]string, 0, len(model.Sections()))
	for i, sec := range model.Sections() {
		columns = append(columns, m.renderSection(sec, i == m.section))
	}
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if m.mode == ModeAddTask || m.mode == ModeEditTask || m.mode == ModeFilter {
		modal := m.renderModal()
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderSection(sec model.Section, focused bool) string {
	width := m.width/3 - 4
	if width < 20 {
		width = 20
	}

	tasks := m.tasks[sec]

	var s strings.Builder
	s.WriteString(SectionTitleStyle.Render(fmt.Sprintf("%s (%d)", sectionTitles[sec], len(tasks))))
	s.WriteString("\n\n")

	for i, t := range tasks {
		style := TaskItemStyle
		cursor := "  "
		if focused && i == m.cursor {
			style = TaskItemSelectedStyle
			cursor = "❯ "
		}

		line := cursor + truncate(t.Text, width-4)
		s.WriteString(style.Render(line) + "\n")

		if t.Project != "" || len(t.Tags) > 0 {
			meta := "    "
			if t.Project != "" {
				meta += t.Project + " "
			}
			if len(t.Tags) > 0 {
				meta += TagStyle.Render("#" + strings.Join(t.Tags, " #"))
			}
			s.WriteString(HelpStyle.Render(meta) + "\n")
		}
	}

	if len(tasks) == 0 {
		s.WriteString(HelpStyle.Render("  (empty)"))
	}

	style := SectionStyle
	if focused {
		style = SectionFocusedStyle
	}
	return style.Width(width).Height(m.height - 4).Render(s.String())
}

func (m Model) renderModal() string {
	title := "New task"
	switch m.mode {
	case ModeEditTask:
		title = "Edit task"
	case ModeFilter:
		title = "Filter"
	}

	content := SectionTitleStyle.Render(title) + "\n\n" +
		m.input.View() + "\n\n" +
		HelpStyle.Render("enter confirm · esc cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	lines := []string{
		SectionTitleStyle.Render("FOCUS keys"),
		"",
		"  ↑/k ↓/j    move cursor",
		"  ←/h →/l    switch section",
		"  K / J      move task up / down",
		"  a          add task",
		"  e          edit task text",
		"  x          mark done",
		"  m          move to next section",
		"  d          delete task",
		"  A          archive old done tasks",
		"  /          filter",
		"  q          quit",
		"",
		HelpStyle.Render("press any key to close"),
	}
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		ModalStyle.Render(strings.Join(lines, "\n")),
	)
}

func (m Model) renderStatusBar() string {
	status := m.renderSyncStatus()

	help := "a add · x done · m move · d delete · / filter · ? help · q quit"
	if m.filterText != "" {
		help = fmt.Sprintf("filter: %q · esc clear", m.filterText)
	}

	left := status
	if m.message != "" {
		left += "  " + m.message
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 4
	if gap < 1 {
		gap = 1
	}

	return StatusBarStyle.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + HelpStyle.Render(help))
}

func (m Model) renderSyncStatus() string {
	switch m.syncStatus {
	case engine.StatusSynced:
		return lipgloss.NewStyle().Foreground(SyncOK).Render("● synced")
	case engine.StatusSyncing:
		return lipgloss.NewStyle().Foreground(SyncPending).Render("● syncing")
	case engine.StatusError:
		return lipgloss.NewStyle().Foreground(SyncFailed).Render("● sync error")
	default:
		return lipgloss.NewStyle().Foreground(Offline).Render("● local")
	}
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
