package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/flatmatrix/internal/storage"
	"github.com/dori/flatmatrix/internal/taskstore"
)

type archiveLoadedMsg struct{ days []storage.BucketSummary }

// ArchiveView lists every stored day. Opening a day loads it in the matrix;
// deleting one moves it to the recycle bin.
type ArchiveView struct {
	store  *taskstore.Store
	keys   KeyMap
	width  int
	height int

	days    []storage.BucketSummary
	cursor  int
	pending string // date awaiting soft-delete confirmation
}

// NewArchiveView creates the archive view
func NewArchiveView(store *taskstore.Store) ArchiveView {
	return ArchiveView{store: store, keys: DefaultKeyMap()}
}

// Init loads the stored days
func (v ArchiveView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v ArchiveView) SetSize(width, height int) ArchiveView {
	v.width = width
	v.height = height
	return v
}

func (v ArchiveView) load() tea.Cmd {
	store := v.store
	return func() tea.Msg {
		days, err := store.ArchiveDates()
		if err != nil {
			return errMsg{err}
		}
		return archiveLoadedMsg{days: days}
	}
}

// Update handles messages
func (v ArchiveView) Update(msg tea.Msg) (ArchiveView, tea.Cmd) {
	switch msg := msg.(type) {
	case archiveLoadedMsg:
		v.days = msg.days
		if v.cursor >= len(v.days) {
			v.cursor = len(v.days) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case tea.KeyMsg:
		if v.pending != "" {
			switch msg.String() {
			case "y", "enter":
				date := v.pending
				v.pending = ""
				if err := v.store.SoftDeleteArchive(date); err != nil {
					return v, fail(err)
				}
				return v, tea.Batch(status("moved %s to the recycle bin", date), v.load())
			case "n", "esc":
				v.pending = ""
				return v, nil
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.days)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Toggle):
			if v.cursor < len(v.days) {
				date := v.days[v.cursor].Date
				return v, func() tea.Msg { return openDateMsg{date: date} }
			}
		case key.Matches(msg, v.keys.Delete):
			if v.cursor < len(v.days) {
				v.pending = v.days[v.cursor].Date
			}
		}
	}
	return v, nil
}

// View renders the archive list
func (v ArchiveView) View() string {
	if v.pending != "" {
		return modalStyle.BorderForeground(colorDanger).Render(fmt.Sprintf(
			"Move %s and all its tasks to the recycle bin?\n\n%s",
			v.pending, subtleStyle.Render("y confirm • n cancel")))
	}

	var lines []string
	if len(v.days) == 0 {
		lines = append(lines, subtleStyle.Italic(true).Render("no stored days yet"))
	}
	for i, day := range v.days {
		line := fmt.Sprintf(" %s  %d task(s), %d done", day.Date, day.TaskCount, day.DoneCount)
		if i == v.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", subtleStyle.Render("enter open • d recycle day • esc back"))

	return panelStyle.Width(v.width - 2).Render(strings.Join(lines, "\n"))
}
