// Package menu provides the landing view: a store summary above the list
// of destinations.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/keymap"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/messages"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/styles"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// Item is one menu destination.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// View is the landing menu.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	items    []Item
	selected int
	store    *domain.StoreStatus

	width  int
	height int
	ready  bool
}

// NewView creates the menu. Nil styles or keymap select the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles: s,
		keymap: km,
		items: []Item{
			{Label: "Ask a question", Hint: "Retrieve passages for a question", View: messages.ViewRetrieve},
			{Label: "Corpus store", Hint: "Inspect the snapshot on disk", View: messages.ViewStore},
			{Label: "Help", Hint: "Key bindings", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Init implements the view contract; the store summary arrives from the app.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles navigation and store status updates.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.StoreStatusLoaded:
		st := msg.Status
		v.store = &st

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.selected = (v.selected - 1 + len(v.items)) % len(v.items)
		case key.Matches(msg, v.keymap.Down):
			v.selected = (v.selected + 1) % len(v.items)
		case key.Matches(msg, v.keymap.Submit):
			return v, v.choose(v.items[v.selected])
		case key.Matches(msg, v.keymap.Help):
			return v, changeView(messages.ViewHelp)
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *View) choose(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return changeView(item.View)
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Nuxway Knowledge"))
	b.WriteString("\n")
	b.WriteString(v.storeLine())
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + item.Label))
			if hint := v.hint(item); hint != "" {
				b.WriteString("  ")
				b.WriteString(v.styles.Muted.Render(hint))
			}
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("[%s/%s] navigate  [%s] select  [%s] help  [%s] quit",
		v.keymap.Up.Help().Key, v.keymap.Down.Help().Key,
		v.keymap.Submit.Help().Key, v.keymap.Help.Help().Key, v.keymap.Quit.Help().Key)))

	return b.String()
}

// storeLine summarises the corpus in one line.
func (v *View) storeLine() string {
	if v.store == nil {
		return v.styles.Muted.Render("Store: checking...")
	}

	switch v.store.State {
	case domain.StoreReady:
		return v.styles.Success.Render(fmt.Sprintf("Store: %d chunks from %d sources", v.store.Chunks, v.store.Sources))
	case domain.StoreMissing:
		return v.styles.Warning.Render("Store: empty, run `knowledge ingest`")
	default:
		return v.styles.Error.Render(fmt.Sprintf("Store: %s", v.store.State))
	}
}

// hint describes the selected item, warning when questions cannot be
// answered from the current store.
func (v *View) hint(item Item) string {
	if item.View == messages.ViewRetrieve && v.store != nil && v.store.State != domain.StoreReady {
		return "No corpus to answer from yet"
	}
	return item.Hint
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
