package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dori/flatmatrix/internal/model"
	"github.com/dori/flatmatrix/internal/storage"
	"github.com/dori/flatmatrix/internal/taskstore"
)

type recycleLoadedMsg struct {
	days    []storage.BucketSummary
	entries []model.DeletedTaskEntry
}

type recyclePane int

const (
	paneDays recyclePane = iota
	paneLedger
)

type recycleAction int

const (
	recycleActionNone recycleAction = iota
	recycleActionPurgeDay
	recycleActionEmptyDays
	recycleActionRemoveEntry
	recycleActionClearLedger
)

// RecycleView shows both soft-delete mechanisms side by side: whole-day
// snapshots on the left, the per-task undo ledger on the right.
type RecycleView struct {
	store  *taskstore.Store
	keys   KeyMap
	width  int
	height int

	days    []storage.BucketSummary
	entries []model.DeletedTaskEntry

	pane        recyclePane
	dayCursor   int
	entryCursor int
	onlyToday   bool

	action       recycleAction
	actionDay    string
	actionEntry  model.DeletedTaskEntry
	actionPrompt string
}

// NewRecycleView creates the recycle-bin view
func NewRecycleView(store *taskstore.Store) RecycleView {
	return RecycleView{store: store, keys: DefaultKeyMap()}
}

// Init loads both recycle mechanisms
func (v RecycleView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v RecycleView) SetSize(width, height int) RecycleView {
	v.width = width
	v.height = height
	return v
}

func (v RecycleView) load() tea.Cmd {
	store := v.store
	return func() tea.Msg {
		days, err := store.RecycleDates()
		if err != nil {
			return errMsg{err}
		}
		entries, err := store.DeletedEntries()
		if err != nil {
			return errMsg{err}
		}
		return recycleLoadedMsg{days: days, entries: entries}
	}
}

// visibleEntries applies the current-date filter, as in the ledger modal of
// the original matrix page.
func (v RecycleView) visibleEntries() []model.DeletedTaskEntry {
	if !v.onlyToday {
		return v.entries
	}
	var out []model.DeletedTaskEntry
	current := v.store.CurrentDate()
	for _, e := range v.entries {
		if e.SourceDate == current {
			out = append(out, e)
		}
	}
	return out
}

// Update handles messages
func (v RecycleView) Update(msg tea.Msg) (RecycleView, tea.Cmd) {
	switch msg := msg.(type) {
	case recycleLoadedMsg:
		v.days = msg.days
		v.entries = msg.entries
		v.clampCursors()
		return v, nil

	case tea.KeyMsg:
		if v.action != recycleActionNone {
			return v.updateConfirm(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *RecycleView) clampCursors() {
	if v.dayCursor >= len(v.days) {
		v.dayCursor = len(v.days) - 1
	}
	if v.dayCursor < 0 {
		v.dayCursor = 0
	}
	if n := len(v.visibleEntries()); v.entryCursor >= n {
		v.entryCursor = n - 1
	}
	if v.entryCursor < 0 {
		v.entryCursor = 0
	}
}

func (v RecycleView) updateNormal(msg tea.KeyMsg) (RecycleView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Right):
		if v.pane == paneDays {
			v.pane = paneLedger
		} else {
			v.pane = paneDays
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.pane == paneDays && v.dayCursor > 0 {
			v.dayCursor--
		} else if v.pane == paneLedger && v.entryCursor > 0 {
			v.entryCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.pane == paneDays && v.dayCursor < len(v.days)-1 {
			v.dayCursor++
		} else if v.pane == paneLedger && v.entryCursor < len(v.visibleEntries())-1 {
			v.entryCursor++
		}
		return v, nil
	}

	switch msg.String() {
	case "f":
		v.onlyToday = !v.onlyToday
		v.clampCursors()
		return v, nil

	case "r": // restore
		if v.pane == paneDays {
			if v.dayCursor < len(v.days) {
				date := v.days[v.dayCursor].Date
				if err := v.store.RestoreArchive(date); err != nil {
					return v, fail(err)
				}
				return v, tea.Batch(status("restored %s", date), v.load())
			}
		} else if entries := v.visibleEntries(); v.entryCursor < len(entries) {
			entry := entries[v.entryCursor]
			if err := v.store.RestoreDeletedEntry(entry); err != nil {
				return v, fail(err)
			}
			return v, tea.Batch(status("restored %q to %s", entry.Task.Title, entry.SourceDate), v.load())
		}
		return v, nil

	case "x": // permanent delete, confirmed
		if v.pane == paneDays {
			if v.dayCursor < len(v.days) {
				v.action = recycleActionPurgeDay
				v.actionDay = v.days[v.dayCursor].Date
				v.actionPrompt = fmt.Sprintf("Permanently delete the snapshot for %s?", v.actionDay)
			}
		} else if entries := v.visibleEntries(); v.entryCursor < len(entries) {
			v.action = recycleActionRemoveEntry
			v.actionEntry = entries[v.entryCursor]
			v.actionPrompt = fmt.Sprintf("Permanently delete %q?", v.actionEntry.Task.Title)
		}
		return v, nil

	case "E": // empty the focused pane
		if v.pane == paneDays {
			if len(v.days) > 0 {
				v.action = recycleActionEmptyDays
				v.actionPrompt = "Empty the day-snapshot recycle bin? This cannot be undone."
			}
		} else if len(v.entries) > 0 {
			v.action = recycleActionClearLedger
			v.actionPrompt = "Clear the deleted-task ledger? This cannot be undone."
		}
		return v, nil
	}

	return v, nil
}

func (v RecycleView) updateConfirm(msg tea.KeyMsg) (RecycleView, tea.Cmd) {
	switch msg.String() {
	case "n", "esc":
		v.action = recycleActionNone
		return v, nil

	case "y", "enter":
		action := v.action
		v.action = recycleActionNone

		var err error
		var note string
		switch action {
		case recycleActionPurgeDay:
			err = v.store.PermanentlyDeleteArchive(v.actionDay)
			note = fmt.Sprintf("purged %s", v.actionDay)
		case recycleActionEmptyDays:
			err = v.store.EmptyRecycleBin()
			note = "recycle bin emptied"
		case recycleActionRemoveEntry:
			err = v.store.RemoveDeletedEntry(v.actionEntry)
			note = fmt.Sprintf("removed %q", v.actionEntry.Task.Title)
		case recycleActionClearLedger:
			err = v.store.ClearDeletedEntries()
			note = "deleted-task ledger cleared"
		}
		if err != nil {
			return v, fail(err)
		}
		return v, tea.Batch(status("%s", note), v.load())
	}
	return v, nil
}

// View renders both recycle panes
func (v RecycleView) View() string {
	if v.action != recycleActionNone {
		return modalStyle.BorderForeground(colorDanger).Render(
			v.actionPrompt + "\n\n" + subtleStyle.Render("y confirm • n cancel"))
	}

	paneWidth := (v.width - 6) / 2

	days := v.renderDays(paneWidth)
	ledger := v.renderLedger(paneWidth)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, days, ledger)

	hints := subtleStyle.Render("h/l switch pane • r restore • x delete forever • E empty pane • f filter today • esc back")
	return lipgloss.JoinVertical(lipgloss.Left, panes, hints)
}

func (v RecycleView) renderDays(width int) string {
	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("Deleted days (%d)", len(v.days))))

	if len(v.days) == 0 {
		lines = append(lines, subtleStyle.Italic(true).Render("  (empty)"))
	}
	for i, day := range v.days {
		line := fmt.Sprintf(" %s  %d task(s)", day.Date, day.TaskCount)
		if v.pane == paneDays && i == v.dayCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	style := panelStyle.Width(width)
	if v.pane == paneDays {
		style = style.BorderForeground(colorSchedule)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (v RecycleView) renderLedger(width int) string {
	entries := v.visibleEntries()

	var lines []string
	label := fmt.Sprintf("Deleted tasks (%d)", len(entries))
	if v.onlyToday {
		label += " · today only"
	}
	lines = append(lines, titleStyle.Render(label))

	if len(entries) == 0 {
		lines = append(lines, subtleStyle.Italic(true).Render("  (empty)"))
	}
	for i, entry := range entries {
		when := time.UnixMilli(entry.DeletedAt).Format("15:04")
		line := fmt.Sprintf(" %s  %s · %s", entry.Task.Title, entry.SourceDate, when)
		if maxLen := width - 2; maxLen > 3 {
			line = runewidth.Truncate(line, maxLen, "...")
		}
		if v.pane == paneLedger && i == v.entryCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	style := panelStyle.Width(width)
	if v.pane == paneLedger {
		style = style.BorderForeground(colorSchedule)
	}
	return style.Render(strings.Join(lines, "\n"))
}
