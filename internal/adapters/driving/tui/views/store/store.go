// Package store provides the corpus store status view for the TUI.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/keymap"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/messages"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/styles"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
)

// View shows what the corpus store currently holds.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	status driving.StatusService
	ctx    context.Context

	current *domain.StoreStatus
	loading bool
	width   int
	height  int
}

// NewView creates a store view. A nil status service renders a placeholder.
func NewView(s *styles.Styles, km *keymap.KeyMap, status driving.StatusService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		status: status,
		ctx:    context.Background(),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for status calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current status.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.status == nil {
		return nil
	}
	v.loading = true
	status, ctx := v.status, v.ctx
	return func() tea.Msg {
		return messages.StoreStatusLoaded{Status: status.StoreStatus(ctx)}
	}
}

// Update handles messages for the store view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StoreStatusLoaded:
		st := msg.Status
		v.current = &st
		v.loading = false
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case key.Matches(msg, v.keymap.Refresh):
			return v, v.load()
		}
	}
	return v, nil
}

// View renders the store status.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Corpus Store"))
	b.WriteString("\n\n")

	switch {
	case v.status == nil:
		b.WriteString(v.styles.Muted.Render("Store status unavailable"))
	case v.current == nil || v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		v.renderStatus(&b, v.current)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[r] Refresh  [esc] Back"))
	return b.String()
}

func (v *View) renderStatus(b *strings.Builder, st *domain.StoreStatus) {
	state := string(st.State)
	switch st.State {
	case domain.StoreReady:
		state = v.styles.Success.Render(state)
	case domain.StoreMissing:
		state = v.styles.Warning.Render(state)
	case domain.StoreCorrupt, domain.StoreError:
		state = v.styles.Error.Render(state)
	}

	fmt.Fprintf(b, "Path:        %s\n", st.Path)
	fmt.Fprintf(b, "State:       %s\n", state)
	if st.State == domain.StoreReady {
		fmt.Fprintf(b, "Chunks:      %d\n", st.Chunks)
		fmt.Fprintf(b, "Sources:     %d\n", st.Sources)
		fmt.Fprintf(b, "Dimensions:  %d\n", st.Dimensions)
	}
	if st.Detail != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(st.Detail))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the last loaded status, or nil.
func (v *View) Status() *domain.StoreStatus {
	return v.current
}
