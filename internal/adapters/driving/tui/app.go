package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/keymap"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/messages"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/styles"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/views/menu"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/views/retrieve"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/views/store"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView     *menu.View
	retrieveView *retrieve.View
	storeView    *store.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         help.New(),
		menuView:     menu.NewView(s, km),
		retrieveView: retrieve.NewView(s, km, ports.Retrieval, ports.TopK),
		storeView:    store.NewView(s, km, ports.Status),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context passed to service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.retrieveView.WithContext(ctx)
	a.storeView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("knowledge"), a.storeView.Init())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.retrieveView.SetDimensions(msg.Width, msg.Height)
		a.storeView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewRetrieve:
			a.retrieveView.Reset()
			return a, a.retrieveView.Init()
		case messages.ViewStore, messages.ViewMenu:
			return a, a.storeView.Init()
		case messages.ViewHelp:
		}
		return a, nil

	case messages.RetrieveCompleted:
		a.retrieveView, cmd = a.retrieveView.Update(msg)
		return a, cmd

	case messages.StoreStatusLoaded:
		a.menuView, _ = a.menuView.Update(msg)
		a.storeView, cmd = a.storeView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRetrieve:
		a.retrieveView, cmd = a.retrieveView.Update(msg)
	case messages.ViewStore:
		a.storeView, cmd = a.storeView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewRetrieve:
		return a.retrieveView.View()
	case messages.ViewStore:
		return a.storeView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

func (a *App) viewHelp() string {
	a.help.ShowAll = true

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.View(a.keymap))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("Passages are ranked by cosine similarity to the question."))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("An empty list means the corpus holds no context for it."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI and blocks until the user quits or ctx ends.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}
