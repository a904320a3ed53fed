package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dori/flatmatrix/internal/model"
	"github.com/dori/flatmatrix/internal/notify"
	"github.com/dori/flatmatrix/internal/taskstore"
)

// Matrix view sections: 0 is the backlog panel, 1-4 the quadrants in
// model.Quadrants order.
const sectionCount = 5

type inputStage int

const (
	stageNone inputStage = iota
	stageTitle
	stageContext
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmSnooze
	confirmClear
	confirmMigrateAll
)

// carryMsg delivers the result of the day-rollover check.
type carryMsg struct{ result taskstore.CarryOverResult }

// toastTickMsg drives the undo-toast countdown.
type toastTickMsg struct{}

// MatrixView is the main view: backlog panel plus the 2x2 quadrant grid.
type MatrixView struct {
	store    *taskstore.Store
	notifier *notify.Notifier
	keys     KeyMap
	width    int
	height   int

	section int
	row     int

	stage        inputStage
	titleInput   textinput.Model
	contextInput textinput.Model
	editingID    string

	confirm         confirmKind
	confirmTask     model.Task
	suppressChecked bool

	carryPending  []model.Task
	carryRemember bool
}

// NewMatrixView creates the matrix view
func NewMatrixView(store *taskstore.Store, notifier *notify.Notifier) MatrixView {
	title := textinput.New()
	title.Placeholder = "task title"
	title.CharLimit = 200

	context := textinput.New()
	context.Placeholder = "note (optional)"
	context.CharLimit = 500

	return MatrixView{
		store:        store,
		notifier:     notifier,
		keys:         DefaultKeyMap(),
		titleInput:   title,
		contextInput: context,
	}
}

// Init runs the carry-over check for the loaded date.
func (v MatrixView) Init() tea.Cmd {
	return v.checkCarryOver()
}

// SetSize sets the view dimensions
func (v MatrixView) SetSize(width, height int) MatrixView {
	v.width = width
	v.height = height
	return v
}

// OpenDate switches the store to another date and re-runs the rollover
// check for it.
func (v MatrixView) OpenDate(date string) (MatrixView, tea.Cmd) {
	if err := v.store.LoadTasksByDate(date); err != nil {
		return v, func() tea.Msg { return errMsg{err} }
	}
	v.section = 0
	v.row = 0
	v.carryPending = nil
	v.carryRemember = false
	return v, v.checkCarryOver()
}

func (v MatrixView) checkCarryOver() tea.Cmd {
	store := v.store
	return func() tea.Msg {
		result, err := store.CheckCarryOver()
		if err != nil {
			return errMsg{err}
		}
		return carryMsg{result: result}
	}
}

// IsInputMode reports whether the view is consuming raw keystrokes (text
// entry or a modal), so root-level bindings must stay out of the way.
func (v MatrixView) IsInputMode() bool {
	return v.stage != stageNone || v.confirm != confirmNone || v.carryPending != nil
}

func toastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return toastTickMsg{} })
}

// Update handles messages
func (v MatrixView) Update(msg tea.Msg) (MatrixView, tea.Cmd) {
	switch msg := msg.(type) {
	case carryMsg:
		if len(msg.result.Pending) > 0 {
			v.carryPending = msg.result.Pending
			v.carryRemember = false
			return v, nil
		}
		if msg.result.Imported > 0 {
			v.notifier.CarriedOver(msg.result.Imported)
			return v, status("carried %d unfinished task(s) over from yesterday", msg.result.Imported)
		}
		return v, nil

	case toastTickMsg:
		if v.store.PendingUndo() != nil {
			return v, toastTick()
		}
		return v, nil

	case tea.KeyMsg:
		if v.carryPending != nil {
			return v.updateCarryModal(msg)
		}
		if v.confirm != confirmNone {
			return v.updateConfirmModal(msg)
		}
		if v.stage != stageNone {
			return v.updateInput(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func status(format string, args ...interface{}) tea.Cmd {
	return func() tea.Msg { return statusMsg(fmt.Sprintf(format, args...)) }
}

func fail(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

// sectionQuadrant maps a section index to its quadrant id.
func sectionQuadrant(section int) model.Quadrant {
	if section == 0 {
		return model.QuadrantNone
	}
	return model.Quadrants[section-1]
}

func (v MatrixView) sectionTasks() []model.Task {
	return v.store.TasksInQuadrant(sectionQuadrant(v.section))
}

func (v MatrixView) selectedTask() (model.Task, bool) {
	tasks := v.sectionTasks()
	if v.row < 0 || v.row >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[v.row], true
}

func (v *MatrixView) clampRow() {
	n := len(v.sectionTasks())
	if v.row >= n {
		v.row = n - 1
	}
	if v.row < 0 {
		v.row = 0
	}
}

func (v MatrixView) updateNormal(msg tea.KeyMsg) (MatrixView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.row > 0 {
			v.row--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.row < len(v.sectionTasks())-1 {
			v.row++
		}
		return v, nil

	case key.Matches(msg, v.keys.Left):
		v.section = (v.section + sectionCount - 1) % sectionCount
		v.clampRow()
		return v, nil

	case key.Matches(msg, v.keys.Right):
		v.section = (v.section + 1) % sectionCount
		v.clampRow()
		return v, nil

	case key.Matches(msg, v.keys.Add):
		v.stage = stageTitle
		v.editingID = ""
		v.titleInput.SetValue("")
		v.contextInput.SetValue("")
		v.titleInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		v.stage = stageTitle
		v.editingID = task.ID
		v.titleInput.SetValue(task.Title)
		v.contextInput.SetValue(task.Context)
		v.titleInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		if err := v.store.ToggleTaskCompletion(task.ID); err != nil {
			return v, fail(err)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		suppressed, err := v.store.ConfirmSuppressed(taskstore.FeatureDeleteTask)
		if err != nil {
			return v, fail(err)
		}
		if suppressed {
			return v.performDelete(task)
		}
		v.confirm = confirmDelete
		v.confirmTask = task
		v.suppressChecked = false
		return v, nil

	case key.Matches(msg, v.keys.Snooze):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		suppressed, err := v.store.ConfirmSuppressed(taskstore.FeatureMigrateTask)
		if err != nil {
			return v, fail(err)
		}
		if suppressed {
			return v.performSnooze(task)
		}
		v.confirm = confirmSnooze
		v.confirmTask = task
		v.suppressChecked = false
		return v, nil

	case key.Matches(msg, v.keys.Undo):
		if err := v.store.UndoDelete(); err != nil {
			return v, fail(err)
		}
		return v, status("restored")

	case key.Matches(msg, v.keys.MoveUp):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		if err := v.store.ReorderTask(task.ID, v.row, v.row-1); err != nil {
			return v, fail(err)
		}
		if v.row > 0 {
			v.row--
		}
		return v, nil

	case key.Matches(msg, v.keys.MoveDn):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		if err := v.store.ReorderTask(task.ID, v.row, v.row+1); err != nil {
			return v, fail(err)
		}
		if v.row < len(v.sectionTasks())-1 {
			v.row++
		}
		return v, nil

	case key.Matches(msg, v.keys.Backlog):
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		if err := v.store.UpdateTaskQuadrant(task.ID, model.QuadrantNone); err != nil {
			return v, fail(err)
		}
		v.clampRow()
		return v, nil

	case key.Matches(msg, v.keys.Clear):
		if len(v.store.Tasks()) == 0 {
			return v, nil
		}
		v.confirm = confirmClear
		v.suppressChecked = false
		return v, nil

	case key.Matches(msg, v.keys.MigrateAll):
		v.confirm = confirmMigrateAll
		v.suppressChecked = false
		return v, nil

	case key.Matches(msg, v.keys.ClearPref):
		if err := v.store.ClearPreference(); err != nil {
			return v, fail(err)
		}
		return v, status("carry-over choice forgotten; tomorrow will ask again")

	case key.Matches(msg, v.keys.PrevDay):
		return v.OpenDate(taskstore.PrevDay(v.store.CurrentDate()))

	case key.Matches(msg, v.keys.NextDay):
		return v.OpenDate(taskstore.NextDay(v.store.CurrentDate()))

	case key.Matches(msg, v.keys.Today):
		return v.OpenDate("")
	}

	// 1-4 assign the selected task to a quadrant
	if n := msg.String(); len(n) == 1 && n >= "1" && n <= "4" {
		task, ok := v.selectedTask()
		if !ok {
			return v, nil
		}
		q := model.Quadrants[int(n[0]-'1')]
		if err := v.store.UpdateTaskQuadrant(task.ID, q); err != nil {
			return v, fail(err)
		}
		v.clampRow()
		return v, nil
	}

	return v, nil
}

func (v MatrixView) performDelete(task model.Task) (MatrixView, tea.Cmd) {
	if err := v.store.PerformTaskDelete(task.ID); err != nil {
		return v, fail(err)
	}
	v.clampRow()
	return v, tea.Batch(status("deleted %q — press u to undo", task.Title), toastTick())
}

func (v MatrixView) performSnooze(task model.Task) (MatrixView, tea.Cmd) {
	if err := v.store.SnoozeTask(task.ID); err != nil {
		return v, fail(err)
	}
	v.clampRow()
	return v, status("moved %q to tomorrow", task.Title)
}

func (v MatrixView) updateInput(msg tea.KeyMsg) (MatrixView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.stage = stageNone
		v.titleInput.Blur()
		v.contextInput.Blur()
		return v, nil

	case "enter":
		if v.stage == stageTitle {
			v.stage = stageContext
			v.titleInput.Blur()
			v.contextInput.Focus()
			return v, textinput.Blink
		}

		title := v.titleInput.Value()
		context := v.contextInput.Value()
		v.stage = stageNone
		v.contextInput.Blur()

		var err error
		if v.editingID != "" {
			// Empty titles reject the edit in place rather than erroring
			err = v.store.UpdateTaskDetails(v.editingID, title, context)
		} else {
			err = v.store.AddTask(title, context)
		}
		if err != nil {
			return v, fail(err)
		}
		return v, nil
	}

	var cmd tea.Cmd
	if v.stage == stageTitle {
		v.titleInput, cmd = v.titleInput.Update(msg)
	} else {
		v.contextInput, cmd = v.contextInput.Update(msg)
	}
	return v, cmd
}

func (v MatrixView) updateCarryModal(msg tea.KeyMsg) (MatrixView, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		count := len(v.carryPending)
		v.carryPending = nil
		if err := v.store.ResolveCarryOver(true, v.carryRemember); err != nil {
			return v, fail(err)
		}
		return v, status("imported %d task(s) from yesterday", count)

	case "n", "esc":
		v.carryPending = nil
		if err := v.store.ResolveCarryOver(false, v.carryRemember); err != nil {
			return v, fail(err)
		}
		return v, status("starting fresh today")

	case "r":
		v.carryRemember = !v.carryRemember
		return v, nil
	}
	return v, nil
}

func (v MatrixView) updateConfirmModal(msg tea.KeyMsg) (MatrixView, tea.Cmd) {
	switch msg.String() {
	case "x":
		// Only the per-task actions offer "don't ask again today"
		if v.confirm == confirmDelete || v.confirm == confirmSnooze {
			v.suppressChecked = !v.suppressChecked
		}
		return v, nil

	case "n", "esc":
		v.confirm = confirmNone
		return v, nil

	case "y", "enter":
		kind := v.confirm
		task := v.confirmTask
		v.confirm = confirmNone

		if v.suppressChecked {
			feature := taskstore.FeatureDeleteTask
			if kind == confirmSnooze {
				feature = taskstore.FeatureMigrateTask
			}
			if err := v.store.SuppressConfirm(feature); err != nil {
				return v, fail(err)
			}
		}

		switch kind {
		case confirmDelete:
			return v.performDelete(task)
		case confirmSnooze:
			return v.performSnooze(task)
		case confirmClear:
			if err := v.store.ClearAllTasks(); err != nil {
				return v, fail(err)
			}
			v.row = 0
			return v, status("cleared all tasks for %s", v.store.CurrentDate())
		case confirmMigrateAll:
			date := v.store.CurrentDate()
			moved, err := v.store.MigrateIncompleteTasks(date, taskstore.NextDay(date))
			if err != nil {
				return v, fail(err)
			}
			v.clampRow()
			if moved == 0 {
				return v, status("nothing unfinished to migrate")
			}
			return v, status("moved %d task(s) to tomorrow", moved)
		}
	}
	return v, nil
}

// View renders the matrix
func (v MatrixView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	if v.carryPending != nil {
		return v.renderCarryModal()
	}
	if v.confirm != confirmNone {
		return v.renderConfirmModal()
	}

	var parts []string
	if v.stage != stageNone {
		parts = append(parts, v.renderInput())
	}
	parts = append(parts, v.renderBacklog(), v.renderGrid())

	if entry := v.store.PendingUndo(); entry != nil {
		parts = append(parts, toastStyle.Render(
			fmt.Sprintf("deleted %q — u to undo, R for the recycle bin", entry.Task.Title)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v MatrixView) renderInput() string {
	label := "new task"
	if v.editingID != "" {
		label = "edit task"
	}
	return fmt.Sprintf("%s\n%s\n%s",
		subtleStyle.Render(label+" (enter to continue, esc to cancel)"),
		v.titleInput.View(),
		v.contextInput.View())
}

func (v MatrixView) renderTaskLine(task model.Task, selected bool, width int) string {
	check := "[ ]"
	if task.IsCompleted {
		check = "[x]"
	}
	plain := fmt.Sprintf(" %s %s", check, task.Title)
	line := plain
	if task.Context != "" {
		plain += " · " + task.Context
		line += subtleStyle.Render(" · " + task.Context)
	}
	// Truncation works on the unstyled text so the cut cannot land inside
	// an escape sequence or split a rune.
	if maxLen := width - 2; maxLen > 3 && runewidth.StringWidth(plain) > maxLen {
		line = runewidth.Truncate(plain, maxLen, "...")
	}

	style := lipgloss.NewStyle().Width(width)
	if task.IsCompleted {
		style = style.Inherit(doneStyle)
	}
	if selected {
		style = style.Inherit(selectedStyle)
	}
	return style.Render(line)
}

func (v MatrixView) renderBacklog() string {
	tasks := v.store.TasksInQuadrant(model.QuadrantNone)
	width := v.width - 4

	var lines []string
	header := titleStyle.Foreground(colorBacklog).Render(fmt.Sprintf("Backlog (%d)", len(tasks)))
	lines = append(lines, header)

	if len(tasks) == 0 {
		lines = append(lines, subtleStyle.Italic(true).Render("  (empty)"))
	}
	for i, task := range tasks {
		selected := v.section == 0 && i == v.row
		lines = append(lines, v.renderTaskLine(task, selected, width))
	}

	style := panelStyle.Width(v.width - 2)
	if v.section == 0 {
		style = style.BorderForeground(colorBacklog)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (v MatrixView) renderGrid() string {
	quadWidth := (v.width - 6) / 2
	quadHeight := (v.height - 10) / 2
	if quadHeight < 4 {
		quadHeight = 4
	}

	var quads [4]string
	for i, q := range model.Quadrants {
		quads[i] = v.renderQuadrant(i, q, quadWidth, quadHeight)
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, quads[0], quads[1])
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, quads[2], quads[3])
	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow)
}

func (v MatrixView) renderQuadrant(index int, q model.Quadrant, width, height int) string {
	tasks := v.store.TasksInQuadrant(q)
	active := v.section == index+1
	color := quadrantColor(index)

	var lines []string
	header := lipgloss.NewStyle().Bold(true).Foreground(color).
		Width(width - 2).Align(lipgloss.Center).
		Render(fmt.Sprintf("%s (%d)", q.Label(), len(tasks)))
	lines = append(lines, header)

	maxItems := height - 2
	for i, task := range tasks {
		if i >= maxItems {
			lines = append(lines, subtleStyle.Render(fmt.Sprintf("  ... +%d more", len(tasks)-maxItems)))
			break
		}
		selected := active && i == v.row
		lines = append(lines, v.renderTaskLine(task, selected, width-2))
	}
	if len(tasks) == 0 {
		lines = append(lines, subtleStyle.Italic(true).Render("  (empty)"))
	}

	style := panelStyle.Width(width).Height(height)
	if active {
		style = style.BorderForeground(color)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (v MatrixView) renderCarryModal() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Unfinished tasks from yesterday"))
	fmt.Fprintf(&b, "%d task(s) were left incomplete. Bring them to today?\n\n", len(v.carryPending))

	shown := v.carryPending
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, t := range shown {
		fmt.Fprintf(&b, "  • %s\n", t.Title)
	}
	if extra := len(v.carryPending) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "  %s\n", subtleStyle.Render(fmt.Sprintf("... +%d more", extra)))
	}

	remember := "[ ]"
	if v.carryRemember {
		remember = "[x]"
	}
	fmt.Fprintf(&b, "\n%s remember my choice (r)\n\n", remember)
	b.WriteString(subtleStyle.Render("y import • n start fresh"))

	return modalStyle.BorderForeground(colorSchedule).Render(b.String())
}

func (v MatrixView) renderConfirmModal() string {
	var b strings.Builder
	switch v.confirm {
	case confirmDelete:
		fmt.Fprintf(&b, "Delete %q?\n", v.confirmTask.Title)
		b.WriteString(subtleStyle.Render("recoverable from the recycle bin, or undo within the toast window") + "\n")
	case confirmSnooze:
		fmt.Fprintf(&b, "Move %q to tomorrow?\n", v.confirmTask.Title)
	case confirmClear:
		fmt.Fprintf(&b, "Clear every task for %s? This cannot be undone.\n", v.store.CurrentDate())
	case confirmMigrateAll:
		b.WriteString("Move all of today's unfinished tasks to tomorrow?\n")
	}

	if v.confirm == confirmDelete || v.confirm == confirmSnooze {
		check := "[ ]"
		if v.suppressChecked {
			check = "[x]"
		}
		fmt.Fprintf(&b, "\n%s don't ask again today (x)\n", check)
	}
	b.WriteString("\n" + subtleStyle.Render("y confirm • n cancel"))

	border := colorSchedule
	if v.confirm == confirmDelete || v.confirm == confirmClear {
		border = colorDanger
	}
	return modalStyle.BorderForeground(border).Render(b.String())
}
