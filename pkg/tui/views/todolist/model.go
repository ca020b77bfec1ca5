// Package todolist is the todo tab: the signed-in user's todos with add,
// complete, priority, delete and start-pomodoro actions.
package todolist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/store"
	"tableflip.dev/daybook/pkg/todo"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// ID identifies the todo list in events.
const ID events.ComponentID = "todolist"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Toggle   key.Binding
	Priority key.Binding
	Delete   key.Binding
	Focus    key.Binding
	Reload   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Priority, k.Delete, k.Focus}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp(), {k.Reload}}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("x", "done")),
	Priority: key.NewBinding(key.WithKeys("!"), key.WithHelp("!", "priority")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Focus:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "focus")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
}

type loadedMsg struct {
	list  *Model
	items []*todo.Todo
	err   error
}

type mutatedMsg struct {
	list   *Model
	status string
	err    error
}

type watchStartedMsg struct {
	list   *Model
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	list  *Model
	event store.Event
}

type watchStoppedMsg struct {
	list *Model
}

// Model is the todo list view.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	svc    *app.Service
	themes *theme.Manager
	log    pslog.Logger

	items  []*todo.Todo
	cursor int
	loaded bool

	input         textinput.Model
	adding        bool
	pendingDelete *todo.Todo

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	help   help.Model
	status string
	active bool
	width  int
	height int
}

// New builds the list. Background work stops when ctx ends or on Unmount.
func New(ctx context.Context, svc *app.Service, themes *theme.Manager, logger pslog.Logger) *Model {
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	ctx, cancel := context.WithCancel(ctx)
	in := textinput.New()
	in.Placeholder = "what needs doing?"
	in.Prompt = "+ "
	in.CharLimit = 200
	return &Model{
		ctx:    ctx,
		cancel: cancel,
		svc:    svc,
		themes: themes,
		log:    logger.With("component", string(ID)),
		input:  in,
		help:   help.New(),
	}
}

// Items returns the loaded todos in display order.
func (m *Model) Items() []*todo.Todo { return m.items }

// Selected returns the todo under the cursor.
func (m *Model) Selected() *todo.Todo {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

// Init loads the list and starts following store changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.startWatch())
}

// SetActive implements ui.Activatable.
func (m *Model) SetActive(active bool) tea.Cmd {
	m.active = active
	if !active {
		m.adding = false
		m.pendingDelete = nil
		m.input.Blur()
	}
	return nil
}

// CapturingInput implements ui.InputCapturer.
func (m *Model) CapturingInput() bool {
	return m.adding || m.pendingDelete != nil
}

// Unmount stops the watch and any in-flight loads.
func (m *Model) Unmount() {
	m.stopWatch()
	m.cancel()
}

func (m *Model) load() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		items, err := svc.Todos(ctx)
		return loadedMsg{list: m, items: items, err: err}
	}
}

func (m *Model) startWatch() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, parent := m.svc, m.ctx
	return func() tea.Msg {
		if parent.Err() != nil {
			return nil
		}
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{list: m, err: err}
		}
		return watchStartedMsg{list: m, ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{list: m, event: ev}
		}
		return watchStoppedMsg{list: m}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// mutate runs fn off the event loop and reloads afterwards.
func (m *Model) mutate(status string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutatedMsg{list: m, status: status, err: fn(ctx)}
	}
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case loadedMsg:
		if msg.list != m {
			break
		}
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
			m.log.Warn("todolist load failed", "err", msg.err)
			break
		}
		m.apply(msg.items)
	case mutatedMsg:
		if msg.list != m {
			break
		}
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, events.ErrorCmd(ID, msg.err)
		}
		m.status = msg.status
		return m, m.load()
	case watchStartedMsg:
		if msg.list != m {
			break
		}
		if msg.err != nil {
			m.log.Warn("todolist watch failed", "err", msg.err)
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		return m, m.waitForWatch()
	case watchEventMsg:
		if msg.list != m {
			break
		}
		var cmd tea.Cmd
		if owner, err := m.svc.Owner(); err == nil && msg.event.Affects(store.BucketTodos, owner) {
			cmd = m.load()
		}
		return m, tea.Batch(cmd, m.waitForWatch())
	case watchStoppedMsg:
		if msg.list != m {
			break
		}
		m.stopWatch()
		return m, m.startWatch()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

// apply swaps in a fresh list and keeps the cursor on the same todo.
func (m *Model) apply(items []*todo.Todo) {
	var selectedID string
	if sel := m.Selected(); sel != nil {
		selectedID = sel.ID
	}
	m.items = items
	m.loaded = true
	m.cursor = min(m.cursor, max(len(items)-1, 0))
	for i, t := range items {
		if t.ID == selectedID {
			m.cursor = i
			break
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.adding {
		return m.handleAddKey(msg)
	}
	if m.pendingDelete != nil {
		target := m.pendingDelete
		m.pendingDelete = nil
		if msg.String() != "y" {
			m.status = "delete cancelled"
			return nil
		}
		return m.mutate("deleted "+target.ShortID(), func(ctx context.Context) error {
			return m.svc.DeleteTodo(ctx, target.ID)
		})
	}

	sel := m.Selected()
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m.input.Focus()
	case key.Matches(msg, keys.Reload):
		return m.load()
	case sel == nil:
		return nil
	case key.Matches(msg, keys.Toggle):
		id := sel.ID
		return m.mutate("", func(ctx context.Context) error {
			_, err := m.svc.ToggleDone(ctx, id)
			return err
		})
	case key.Matches(msg, keys.Priority):
		id := sel.ID
		return m.mutate("", func(ctx context.Context) error {
			_, err := m.svc.TogglePriority(ctx, id)
			return err
		})
	case key.Matches(msg, keys.Delete):
		m.pendingDelete = sel
		m.status = fmt.Sprintf("delete %q? y/n", sel.Title)
	case key.Matches(msg, keys.Focus):
		if sel.Done {
			m.status = "that one is already done"
			return nil
		}
		return events.StartPomodoroCmd(ID, sel.ID, sel.Title)
	}
	return nil
}

func (m *Model) handleAddKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if title == "" {
			return nil
		}
		return m.mutate("added", func(ctx context.Context) error {
			_, err := m.svc.AddTodo(ctx, title)
			return err
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)
	m.help.Width = width
}

// View implements ui.Component.
func (m *Model) View() string {
	th := m.themes.Theme()
	var b strings.Builder

	open := 0
	for _, t := range m.items {
		if !t.Done {
			open++
		}
	}
	b.WriteString(th.Title.Render(fmt.Sprintf("Todos · %d open", open)))
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(th.Muted.Render("loading…"))
		b.WriteString("\n")
	case len(m.items) == 0:
		b.WriteString(th.Muted.Render("nothing here yet, press a to add one"))
		b.WriteString("\n")
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(th, i))
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(th.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *Model) visibleRange() (int, int) {
	rows := len(m.items)
	avail := m.height - 6
	if avail <= 0 || rows <= avail {
		return 0, rows
	}
	start := max(m.cursor-avail+1, 0)
	return start, min(start+avail, rows)
}

func (m *Model) renderRow(th theme.Theme, i int) string {
	t := m.items[i]
	cursor := "  "
	style := th.List.Normal
	if t.Priority && !t.Done {
		style = th.List.Priority
	}
	if t.Done {
		style = th.List.Done
	}
	if i == m.cursor && m.active {
		cursor = "› "
		style = th.List.Selected
	}
	line := t.String()
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(max(m.width-4, 4)), "…")
	}
	return cursor + style.Render(line)
}
