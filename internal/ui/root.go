package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/flatmatrix/internal/app"
)

// viewID identifies the active view
type viewID int

const (
	viewMatrix viewID = iota
	viewArchive
	viewRecycle
)

// Messages shared between views.
type statusMsg string

type errMsg struct{ err error }

// openDateMsg asks the root to load a date and show the matrix.
type openDateMsg struct{ date string }

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView viewID
	matrix      MatrixView
	archive     ArchiveView
	recycle     RecycleView
	helpVisible bool

	statusText string
	errorText  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: viewMatrix,
		matrix:      NewMatrixView(application.Store, application.Notifier),
		archive:     NewArchiveView(application.Store),
		recycle:     NewRecycleView(application.Store),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.matrix.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Header and footer take two lines each
		contentHeight := m.height - 4
		m.matrix = m.matrix.SetSize(m.width, contentHeight)
		m.archive = m.archive.SetSize(m.width, contentHeight)
		m.recycle = m.recycle.SetSize(m.width, contentHeight)
		return m, nil

	case statusMsg:
		m.statusText = string(msg)
		m.errorText = ""
		return m, nil

	case errMsg:
		m.errorText = msg.err.Error()
		return m, nil

	case openDateMsg:
		m.currentView = viewMatrix
		var cmd tea.Cmd
		m.matrix, cmd = m.matrix.OpenDate(msg.date)
		return m, cmd

	case tea.KeyMsg:
		m.statusText = ""
		m.errorText = ""

		// Modal and text-entry states consume every key
		if m.currentView == viewMatrix && m.matrix.IsInputMode() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			return m, nil

		case key.Matches(msg, m.keys.ArchiveView):
			m.currentView = viewArchive
			return m, m.archive.Init()

		case key.Matches(msg, m.keys.RecycleView):
			m.currentView = viewRecycle
			return m, m.recycle.Init()

		case key.Matches(msg, m.keys.Back):
			if m.currentView != viewMatrix {
				m.currentView = viewMatrix
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewMatrix:
		m.matrix, cmd = m.matrix.Update(msg)
	case viewArchive:
		m.archive, cmd = m.archive.Update(msg)
	case viewRecycle:
		m.recycle, cmd = m.recycle.Update(msg)
	}
	return m, cmd
}

// View renders the application
func (m RootModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var body string
	switch m.currentView {
	case viewMatrix:
		body = m.matrix.View()
	case viewArchive:
		body = m.archive.View()
	case viewRecycle:
		body = m.recycle.View()
	}

	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m RootModel) renderHeader() string {
	name := titleStyle.Render("flatmatrix")
	var label string
	switch m.currentView {
	case viewMatrix:
		label = m.app.Store.CurrentDate()
	case viewArchive:
		label = "archive"
	case viewRecycle:
		label = "recycle bin"
	}
	return fmt.Sprintf("%s  %s\n", name, subtleStyle.Render(label))
}

func (m RootModel) renderFooter() string {
	if m.errorText != "" {
		return "\n" + errorStyle.Render("error: "+m.errorText)
	}
	if m.statusText != "" {
		return "\n" + statusStyle.Render(m.statusText)
	}
	if m.helpVisible {
		return "\n" + subtleStyle.Render(
			"a add • e edit • space toggle • 1-4 quadrant • 0 backlog • J/K reorder • d delete • u undo • "+
				"s snooze • m migrate • [/]/t day • A archive • R recycle • q quit")
	}
	return "\n" + subtleStyle.Render("? help • q quit")
}
