// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// RetrieveCompleted carries retrieved passages back to the model.
type RetrieveCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// StoreStatusLoaded carries the corpus store status.
type StoreStatusLoaded struct {
	Status domain.StoreStatus
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewRetrieve is the query input and passage list.
	ViewRetrieve
	// ViewStore shows the corpus store status.
	ViewStore
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRetrieve:
		return "retrieve"
	case ViewStore:
		return "store"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
