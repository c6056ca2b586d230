// Package retrieve provides the question and passage view for the TUI.
package retrieve

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/components/input"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/components/list"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/components/status"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/keymap"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/messages"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/styles"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
)

// Mode is what the view is currently doing with key input.
type Mode int

const (
	// ModeInput sends keys to the query input.
	ModeInput Mode = iota
	// ModeResults navigates the passage list.
	ModeResults
	// ModeReading scrolls one passage in full.
	ModeReading
)

// chrome is the number of rows used by the header, input and status bar.
const chrome = 10

// View is the retrieval view: a query input, the ranked passages and a
// reader for the selected passage.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.PassageList
	reader    viewport.Model
	statusbar *status.Bar

	retrieval driving.RetrievalService
	k         int
	ctx       context.Context

	width     int
	height    int
	ready     bool
	err       error
	mode      Mode
	lastQuery string
}

// NewView creates a new retrieval view. k is passed to every Retrieve call;
// zero selects the service default.
func NewView(s *styles.Styles, km *keymap.KeyMap, retrieval driving.RetrievalService, k int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		list:      list.NewPassageList(s),
		reader:    viewport.New(80, 24-chrome),
		statusbar: status.NewBar(s, km),
		retrieval: retrieval,
		k:         k,
		ctx:       context.Background(),
		width:     80,
		height:    24,
		mode:      ModeInput,
	}
}

// WithContext sets the context used for retrieval calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the retrieval view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RetrieveCompleted:
		v.handleCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	switch v.mode {
	case ModeInput:
		v.input, cmd = v.input.Update(msg)
	case ModeReading:
		v.reader, cmd = v.reader.Update(msg)
	case ModeResults:
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.mode == ModeReading {
		if key.Matches(msg, v.keymap.Back) {
			v.mode = ModeResults
			return v, nil
		}
		var cmd tea.Cmd
		v.reader, cmd = v.reader.Update(msg)
		return v, cmd
	}

	if key.Matches(msg, v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.mode == ModeInput {
		if key.Matches(msg, v.keymap.Submit) {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.lastQuery = query
			v.statusbar.SetState(status.StateRetrieving)
			v.mode = ModeResults
			v.input.Blur()
			return v, v.retrieve(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Expand):
		if result := v.list.SelectedResult(); result != nil {
			v.openReader(result)
		}
	case key.Matches(msg, v.keymap.NewQuery):
		v.mode = ModeInput
		v.input.SetValue("")
		return v, v.input.Focus()
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	}
	return v, nil
}

func (v *View) retrieve(query string) tea.Cmd {
	retrieval, ctx, k := v.retrieval, v.ctx, v.k
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		results, err := retrieval.Retrieve(ctx, query, k)
		return messages.RetrieveCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleCompleted(msg messages.RetrieveCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.list.SetResults(nil)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
}

func (v *View) openReader(result *domain.SearchResult) {
	body := lipgloss.NewStyle().Width(v.reader.Width).Render(result.Text)
	v.reader.SetContent(body)
	v.reader.GotoTop()
	v.mode = ModeReading
}

// View renders the retrieval view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Nuxway Knowledge"), "")

	if v.mode == ModeReading {
		if result := v.list.SelectedResult(); result != nil {
			sections = append(sections, v.styles.Source.Render(result.Source), "")
		}
		sections = append(sections, v.reader.View(), "",
			v.styles.Muted.Render("[↑/↓] scroll  [esc] back to passages"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, v.input.View(), "")
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-chrome)
	v.reader.Width = width
	v.reader.Height = max(height-chrome, 3)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Query returns the text in the query input.
func (v *View) Query() string {
	return v.input.Value()
}

// LastQuery returns the most recently submitted query.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// Results returns the passages currently shown.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected passage.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the last retrieval error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to an empty, focused input.
func (v *View) Reset() {
	v.mode = ModeInput
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}
