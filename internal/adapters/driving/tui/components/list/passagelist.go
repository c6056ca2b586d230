// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/tui/styles"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// linesPerPassage is the rendered height of one entry.
const linesPerPassage = 3

// PassageList displays retrieved passages in a navigable list.
type PassageList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewPassageList creates a new passage list component.
func NewPassageList(s *styles.Styles) *PassageList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PassageList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (p *PassageList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (p *PassageList) Update(msg tea.Msg) (*PassageList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			p.MoveUp()
		case "down", "j":
			p.MoveDown()
		}
	}
	return p, nil
}

// View renders the list.
func (p *PassageList) View() string {
	if len(p.results) == 0 {
		return p.styles.Muted.Render("No passages")
	}

	lines := make([]string, 0, len(p.results)*linesPerPassage+2)
	lines = append(lines, p.styles.Subtitle.Render(fmt.Sprintf("Passages (%d)", len(p.results))), "")

	visible := (p.height - 2) / linesPerPassage
	if visible < 1 {
		visible = 1
	}

	start := 0
	if p.selected >= visible {
		start = p.selected - visible + 1
	}
	end := start + visible
	if end > len(p.results) {
		end = len(p.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, p.renderPassage(i, &p.results[i]))
	}

	return strings.Join(lines, "\n")
}

func (p *PassageList) renderPassage(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == p.selected {
		indicator = "> "
	}

	source := Truncate(result.Source, p.width-14)
	score := fmt.Sprintf("%.3f", result.Score)

	var head string
	if index == p.selected {
		head = p.styles.Selected.Render(indicator + score + "  " + source)
	} else {
		head = indicator + p.styles.Score.Render(score) + "  " + p.styles.Source.Render(source)
	}

	preview := Truncate(strings.Join(strings.Fields(result.Text), " "), p.width-6)
	return head + "\n" + p.styles.Muted.Render("    "+preview) + "\n"
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// SetResults replaces the list contents and resets the selection.
func (p *PassageList) SetResults(results []domain.SearchResult) {
	p.results = results
	p.selected = 0
}

// Results returns the current results.
func (p *PassageList) Results() []domain.SearchResult {
	return p.results
}

// Selected returns the index of the selected passage.
func (p *PassageList) Selected() int {
	return p.selected
}

// SelectedResult returns the selected passage, or nil if the list is empty.
func (p *PassageList) SelectedResult() *domain.SearchResult {
	if p.selected < 0 || p.selected >= len(p.results) {
		return nil
	}
	return &p.results[p.selected]
}

// MoveUp moves selection up.
func (p *PassageList) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves selection down.
func (p *PassageList) MoveDown() {
	if p.selected < len(p.results)-1 {
		p.selected++
	}
}

// SetDimensions sets the component dimensions.
func (p *PassageList) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Count returns the number of passages.
func (p *PassageList) Count() int {
	return len(p.results)
}
