package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// listItem adapts model.Record to bubbles/list.Item
type listItem struct {
	name string
	done bool
}

func (i listItem) FilterValue() string { return i.name }

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

type listModel struct {
	list    list.Model
	changed bool

	// shared by add and edit
	mode      inputMode
	input     textinput.Model
	editIndex int
	inputErr  string

	// single-level undo for deletes
	undoIndex int
	undoItem  *listItem

	width, height int
}

// Single-line rows.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := it.name
	if it.done {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(it.name)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

func newListModel(records []model.Record) listModel {
	items := make([]list.Item, 0, len(records))
	for _, r := range records {
		items = append(items, listItem{name: r.Name, done: r.Done})
	}

	t := ui.Current()
	l := list.New(items, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	extra := func() []key.Binding { return []key.Binding{toggleBind, addBind, editBind, delBind, undoBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 200

	m := listModel{list: l, input: in, width: 80, height: 24}
	m.list.SetSize(m.width-4, m.height-4)
	return m
}

// runInteractiveList runs the bubbletea list on the alternate screen.
func runInteractiveList(records []model.Record) ([]model.Record, bool, error) {
	p := tea.NewProgram(newListModel(records), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	fm, ok := final.(listModel)
	if !ok {
		return nil, false, nil
	}
	return fm.records(), fm.changed, nil
}

func (m listModel) records() []model.Record {
	out := make([]model.Record, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, model.Record{Name: li.name, Done: li.done})
		}
	}
	return out
}

// exists reports whether another row already uses name.
func (m listModel) exists(name string, skip int) bool {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && i != skip && li.name == name {
			return true
		}
	}
	return false
}

func (m listModel) Init() tea.Cmd { return nil }

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	i := m.list.GlobalIndex()
	selected, hasSelection := m.list.SelectedItem().(listItem)

	switch km.String() {
	case "esc":
		if m.list.FilterState() == list.FilterApplied {
			m.unfilter()
			return m, nil
		}
		return m, tea.Quit
	case "q":
		return m, tea.Quit
	case " ":
		if hasSelection {
			m.unfilter()
			selected.done = !selected.done
			m.list.SetItem(i, selected)
			m.list.Select(i)
			m.changed = true
		}
		return m, nil
	case "d":
		if hasSelection {
			m.unfilter()
			tmp := selected
			m.undoItem = &tmp
			m.undoIndex = i
			m.list.RemoveItem(i)
			if n := len(m.list.Items()); n > 0 {
				m.list.Select(min(i, n-1))
			}
			m.changed = true
		}
		return m, nil
	case "u":
		if m.undoItem != nil {
			m.unfilter()
			idx := min(max(m.undoIndex, 0), len(m.list.Items()))
			m.list.InsertItem(idx, *m.undoItem)
			m.list.Select(idx)
			m.undoItem = nil
			m.changed = true
		}
		return m, nil
	case "a":
		m.unfilter()
		if hasSelection {
			m.list.Select(i)
		}
		m.mode = modeAdd
		m.inputErr = ""
		m.input.SetValue("")
		m.input.Placeholder = "New item..."
		m.resize()
		cmd := m.input.Focus()
		return m, cmd
	case "e":
		if hasSelection {
			m.unfilter()
			m.list.Select(i)
			m.mode = modeEdit
			m.editIndex = i
			m.inputErr = ""
			m.input.SetValue(selected.name)
			m.input.CursorEnd()
			m.input.Placeholder = "Rename item..."
			m.resize()
			cmd := m.input.Focus()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			skip := -1
			if m.mode == modeEdit {
				skip = m.editIndex
			}
			switch {
			case name == "":
				m.inputErr = "name cannot be empty"
				return m, nil
			case validateItem(name) != nil:
				m.inputErr = "name cannot contain tabs or line breaks"
				return m, nil
			case m.exists(name, skip):
				m.inputErr = "already in the list"
				return m, nil
			}

			if m.mode == modeAdd {
				idx := 0
				if len(m.list.Items()) > 0 {
					idx = m.list.GlobalIndex() + 1
				}
				m.list.InsertItem(idx, listItem{name: name, done: true})
			} else if li, ok := m.list.Items()[m.editIndex].(listItem); ok {
				li.name = name
				m.list.SetItem(m.editIndex, li)
			}
			m.changed = true
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// unfilter drops an applied filter. Item edits address the full list by
// global index, and bubbles only keeps filtered positions in sync when
// no filter is active.
func (m *listModel) unfilter() {
	if m.list.FilterState() != list.Unfiltered {
		m.list.ResetFilter()
	}
}

func (m *listModel) closeInput() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

func (m *listModel) resize() {
	h := m.height - 4
	if m.mode != modeBrowse {
		h -= 4
	}
	m.list.SetSize(max(m.width-4, 10), max(h, 3))
}

func (m listModel) View() string {
	content := m.list.View()
	if m.mode != modeBrowse {
		t := ui.Current()
		title := "Add item"
		if m.mode == modeEdit {
			title = "Rename item"
		}
		if m.inputErr != "" {
			title += "  " + t.Error.Render(m.inputErr)
		}
		content += "\n" + ui.PanelString(title+"\n"+m.input.View())
	}
	return ui.PanelString(content)
}
