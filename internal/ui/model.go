package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todoman/internal/todo"
)

// TaskStore is the part of todo.Store the task manager drives.
type TaskStore interface {
	Path() string
	Tasks() []todo.Task
	Add(description string) error
	MarkCompleted(i int) error
	Delete(i int) error
}

// focus is the widget receiving keys.
type focus int

const (
	focusList focus = iota
	focusInput
	focusAdd
	focusComplete
	focusDelete
	focusExit
	focusCount
)

// buttons in display order; each maps to the focus slot of the same index
// offset by focusAdd.
var buttonLabels = [...]string{"Add Task", "Mark as Completed", "Delete Task", "Exit"}

// Notice titles and messages.
const (
	titleInputError     = "Input Error"
	titleSelectionError = "Selection Error"
	titleSaveError      = "Save Error"
	titleExit           = "Exit"

	msgEmptyDescription = "Please enter a task description."
	msgSelectComplete   = "Please select a task to mark as completed."
	msgSelectDelete     = "Please select a task to delete."
	msgConfirmExit      = "Are you sure you want to exit?"
)

type dialogKind int

const (
	dialogNotice dialogKind = iota
	dialogConfirmExit
)

// dialog is a modal box. While one is open it receives every key.
type dialog struct {
	kind  dialogKind
	title string
	body  string
	yes   bool // confirm: the highlighted answer
}

// Model is the bubbletea model of the task manager window.
type Model struct {
	store  TaskStore
	logger *log.Logger
	keys   keyMap
	styles styles
	help   help.Model
	input  textinput.Model

	rows     []string
	selected int // -1 when nothing is selected
	cursor   int // where keyboard selection resumes after a refresh
	focus    focus
	dialog   *dialog

	fullscreen bool
	width      int
	height     int
	quitting   bool
}

// NewModel creates a task manager model over store.
func NewModel(store TaskStore, opts ...Option) *Model {
	c := newTUIConfig(opts)

	ti := textinput.New()
	ti.Placeholder = "Describe the task"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = 60

	m := &Model{
		store:      store,
		logger:     c.logger,
		keys:       newKeyMap(),
		styles:     defaultStyles(),
		help:       help.New(),
		input:      ti,
		selected:   -1,
		focus:      focusInput,
		fullscreen: c.fullscreen,
	}
	m.input.Focus()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 10; w > 10 {
			m.input.Width = w
		}
		return m, nil
	case tea.KeyMsg:
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		return m.updateKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	switch d.kind {
	case dialogConfirmExit:
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.quit()
		case key.Matches(msg, m.keys.No):
			m.dialog = nil
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
			d.yes = !d.yes
		case key.Matches(msg, m.keys.Submit):
			if d.yes {
				return m.quit()
			}
			m.dialog = nil
		}
	default:
		if key.Matches(msg, m.keys.Dismiss) {
			m.dialog = nil
		}
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Fullscreen):
		return m, m.toggleFullscreen()
	case msg.Type == tea.KeyCtrlC:
		m.confirmExit()
		return m, nil
	case key.Matches(msg, m.keys.NextFocus):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.PrevFocus):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	switch m.focus {
	case focusInput:
		if key.Matches(msg, m.keys.Submit) {
			m.addTask()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case focusList:
		return m.updateList(msg)
	default:
		if key.Matches(msg, m.keys.Submit) || msg.String() == " " {
			m.press(m.focus)
		} else if key.Matches(msg, m.keys.Quit) {
			m.confirmExit()
		}
		return m, nil
	}
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Complete):
		m.markCompleted()
	case key.Matches(msg, m.keys.Delete):
		m.deleteTask()
	case key.Matches(msg, m.keys.NewTask):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		m.confirmExit()
	}
	return m, nil
}

// press activates the button at focus slot f.
func (m *Model) press(f focus) {
	switch f {
	case focusAdd:
		m.addTask()
	case focusComplete:
		m.markCompleted()
	case focusDelete:
		m.deleteTask()
	case focusExit:
		m.confirmExit()
	}
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// moveSelection selects the row delta away from the current one. With no
// selection, the first move selects the row under the cursor.
func (m *Model) moveSelection(delta int) {
	if len(m.rows) == 0 {
		return
	}
	next := m.cursor
	if m.selected >= 0 {
		next = m.selected + delta
	}
	next = clamp(next, 0, len(m.rows)-1)
	m.selected = next
	m.cursor = next
}

func (m *Model) addTask() {
	description := m.input.Value()
	if description == "" {
		m.notify(titleInputError, msgEmptyDescription)
		return
	}
	if err := m.store.Add(description); err != nil {
		m.saveFailed(err)
	}
	m.input.Reset()
	m.cursor = len(m.rows)
	m.refresh()
}

func (m *Model) markCompleted() {
	if m.selected < 0 {
		m.notify(titleSelectionError, msgSelectComplete)
		return
	}
	if err := m.store.MarkCompleted(m.selected); err != nil {
		m.saveFailed(err)
	}
	m.refresh()
}

func (m *Model) deleteTask() {
	if m.selected < 0 {
		m.notify(titleSelectionError, msgSelectDelete)
		return
	}
	if err := m.store.Delete(m.selected); err != nil {
		m.saveFailed(err)
	}
	m.refresh()
}

// refresh rebuilds the rows from the store. Rebuilding drops the selection.
func (m *Model) refresh() {
	tasks := m.store.Tasks()
	m.rows = make([]string, len(tasks))
	for i, task := range tasks {
		m.rows[i] = task.String()
	}
	m.selected = -1
	m.cursor = clamp(m.cursor, 0, max(len(m.rows)-1, 0))
}

func (m *Model) notify(title, body string) {
	m.logger.Debug("notice", "title", title, "body", body)
	m.dialog = &dialog{kind: dialogNotice, title: title, body: body}
}

func (m *Model) saveFailed(err error) {
	m.logger.Error("save failed", "path", m.store.Path(), "err", err)
	m.notify(titleSaveError, err.Error())
}

func (m *Model) confirmExit() {
	m.dialog = &dialog{kind: dialogConfirmExit, title: titleExit, body: msgConfirmExit, yes: true}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.dialog = nil
	m.quitting = true
	m.logger.Debug("exit confirmed")
	return m, tea.Quit
}

func (m *Model) toggleFullscreen() tea.Cmd {
	m.fullscreen = !m.fullscreen
	m.logger.Debug("fullscreen toggled", "fullscreen", m.fullscreen)
	if m.fullscreen {
		return tea.EnterAltScreen
	}
	return tea.ExitAltScreen
}

// Selected returns the selected row index, or -1.
func (m *Model) Selected() int {
	return m.selected
}

// Rows returns the rendered task rows.
func (m *Model) Rows() []string {
	out := make([]string, len(m.rows))
	copy(out, m.rows)
	return out
}

// Fullscreen reports whether the window is in fullscreen mode.
func (m *Model) Fullscreen() bool {
	return m.fullscreen
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.dialog != nil {
		return m.viewDialog()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Task Manager"))
	b.WriteString("\n")
	b.WriteString(m.viewList())
	b.WriteString("\n")

	inputStyle := m.styles.Input
	if m.focus == focusInput {
		inputStyle = m.styles.InputFocus
	}
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.viewButtons())
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// listChrome is the number of lines the view needs besides the list rows.
const listChrome = 16

func (m *Model) viewList() string {
	var lines []string
	if len(m.rows) == 0 {
		lines = append(lines, m.styles.Empty.Render("No tasks yet."))
	}

	first, last := m.visibleRange()
	for i := first; i < last; i++ {
		prefix := "  "
		style := m.styles.Row
		switch {
		case i == m.selected:
			prefix = "> "
			style = m.styles.SelectedRow
		case i == m.cursor && m.focus == focusList:
			prefix = "· "
			style = m.styles.CursorRow
		}
		lines = append(lines, style.Render(prefix+m.rows[i]))
	}
	if first > 0 || last < len(m.rows) {
		lines = append(lines, m.styles.Status.Render(fmt.Sprintf("(%d-%d of %d)", first+1, last, len(m.rows))))
	}

	box := m.styles.ListBox
	if m.focus == focusList {
		box = m.styles.ListBoxFocus
	}
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(strings.Join(lines, "\n"))
}

// visibleRange returns the rows that fit the window, keeping the
// selection (or cursor) in view.
func (m *Model) visibleRange() (int, int) {
	n := len(m.rows)
	if m.height == 0 || m.height-listChrome >= n {
		return 0, n
	}
	size := max(m.height-listChrome, 1)
	anchor := m.cursor
	if m.selected >= 0 {
		anchor = m.selected
	}
	first := clamp(anchor-size/2, 0, n-size)
	return first, first + size
}

func (m *Model) viewButtons() string {
	rendered := make([]string, len(buttonLabels))
	for i, label := range buttonLabels {
		style := m.styles.Button
		if m.focus == focusAdd+focus(i) {
			style = m.styles.ButtonFocus
		}
		rendered[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) viewStatus() string {
	mode := "windowed"
	if m.fullscreen {
		mode = "fullscreen"
	}
	done := 0
	for _, row := range m.rows {
		if strings.HasPrefix(row, "[x]") {
			done++
		}
	}
	return m.styles.Status.Render(fmt.Sprintf("%s | %d tasks, %d completed | %s", m.store.Path(), len(m.rows), done, mode))
}

func (m *Model) viewDialog() string {
	d := m.dialog
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render(d.title))
	b.WriteString("\n")
	b.WriteString(d.body)
	b.WriteString("\n\n")
	if d.kind == dialogConfirmExit {
		yes, no := m.styles.Button, m.styles.Button
		if d.yes {
			yes = m.styles.ButtonFocus
		} else {
			no = m.styles.ButtonFocus
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), no.Render("No")))
	} else {
		b.WriteString(m.styles.ButtonFocus.Render("OK"))
	}

	box := m.styles.Dialog.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
