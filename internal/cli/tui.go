package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// outcomeColors colours the outcome column.
var outcomeColors = map[placement.Outcome]lipgloss.Color{
	placement.Placed:       colorGreen,
	placement.Repositioned: colorCyan,
	placement.Symbolized:   colorYellow,
	placement.Dropped:      colorRed,
}

// reviewFilters is the cycle of outcome filters; nil shows every label.
var reviewFilters = []*placement.Outcome{
	nil,
	outcomePtr(placement.Placed),
	outcomePtr(placement.Repositioned),
	outcomePtr(placement.Symbolized),
	outcomePtr(placement.Dropped),
}

func outcomePtr(o placement.Outcome) *placement.Outcome { return &o }

// =============================================================================
// ReviewModel - Interactive label review
// =============================================================================

// ReviewModel is the bubbletea model for browsing the labels of a layout.
type ReviewModel struct {
	Layout *layout.Layout
	Cursor int
	Height int
	Offset int

	filter  int
	visible []int // indices into Layout.Labels
}

// NewReviewModel creates a review model showing every label.
func NewReviewModel(l *layout.Layout) ReviewModel {
	m := ReviewModel{Layout: l, Height: 15}
	m.applyFilter()
	return m
}

// Filter returns the outcome currently shown, or nil for all labels.
func (m ReviewModel) Filter() *placement.Outcome {
	return reviewFilters[m.filter]
}

// WithFilter returns m showing only labels with outcome o; nil shows all.
func (m ReviewModel) WithFilter(o *placement.Outcome) ReviewModel {
	for i, f := range reviewFilters {
		if (f == nil && o == nil) || (f != nil && o != nil && *f == *o) {
			m.filter = i
			break
		}
	}
	m.applyFilter()
	return m
}

// Visible returns the labels that pass the current filter.
func (m ReviewModel) Visible() []placement.Label {
	out := make([]placement.Label, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.Layout.Labels[idx]
	}
	return out
}

func (m *ReviewModel) applyFilter() {
	want := reviewFilters[m.filter]
	visible := make([]int, 0, len(m.Layout.Labels))
	for i, l := range m.Layout.Labels {
		if want == nil || l.Outcome == *want {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	m.Cursor, m.Offset = 0, 0
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab", "f":
			m.filter = (m.filter + 1) % len(reviewFilters)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ReviewModel) View() string {
	var b strings.Builder

	title := "Review Labels"
	if m.Layout.JobID != "" {
		title += " " + m.Layout.JobID
	}
	filter := "all"
	if f := m.Filter(); f != nil {
		filter = f.String()
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter (" + filter + ")  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Layout.Labels[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", l.Index+1),
			fmt.Sprintf("%d", l.Page+1),
			shorten(l.Text, 28),
			l.Outcome.String(),
			l.Symbol,
			labelDetail(l),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Page", "Text", "Outcome", "Symbol", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			l := m.Layout.Labels[m.visible[idx]]
			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(outcomeColors[l.Outcome])
			} else if col == 6 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Cursor < len(m.visible) {
		l := m.Layout.Labels[m.visible[m.Cursor]]
		b.WriteString(listSelectedStyle.Render("  " + string(l.Glyphs)))
		b.WriteString("\n")
	}

	c := m.Layout.Summary.Counts
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d placed · %d moved · %d symbols · %d dropped",
		min(m.Cursor+1, len(m.visible)), len(m.visible),
		c.Placed, c.Repositioned, c.Symbolized, c.Dropped)))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// labelDetail explains a label's outcome in a few words.
func labelDetail(l placement.Label) string {
	var parts []string
	if l.Cause != "" {
		parts = append(parts, string(l.Cause))
	}
	if l.Truncated {
		parts = append(parts, "truncated")
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

// shorten truncates s to n runes with an ellipsis.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
