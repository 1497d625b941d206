package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

const defaultWidth = 80

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#1E8A4C", Dark: "#3FD07F"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorMatch   = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C453"}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorDim)
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	neutralStyle = lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Foreground(colorError).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	matchedCardStyle = cardStyle.
				BorderForeground(colorMatch).
				Foreground(colorMatch).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorDim)

	focusedButtonStyle = buttonStyle.BorderForeground(colorAccent).Foreground(colorAccent).Bold(true)
)

// RenderCard draws one token card: the token text over its length caption.
func RenderCard(c workflow.Card) string {
	style := cardStyle
	if c.Matched {
		style = matchedCardStyle
	}
	return style.Render(c.Text + "\n" + dimStyle.Render(c.Caption()))
}

// RenderPanel draws one side of the board: header, status and cards wrapped to width.
func RenderPanel(title string, p *workflow.Panel, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")

	if p.Status != nil {
		style := successStyle
		if p.Status.Kind == workflow.StatusNeutral {
			style = neutralStyle
		}
		sb.WriteString(style.Render(p.Status.Message))
		sb.WriteString("\n")
	}

	var row []string
	rowWidth := 0
	for _, c := range p.Cards {
		card := RenderCard(c)
		w := lipgloss.Width(card)
		if len(row) > 0 && rowWidth+w > width {
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			sb.WriteString("\n")
			row, rowWidth = nil, 0
		}
		row = append(row, card)
		rowWidth += w
	}
	if len(row) > 0 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderBoard draws both sides of b. A hidden board renders as "".
func RenderBoard(b *workflow.Board, width int) string {
	if !b.Visible {
		return ""
	}
	return RenderPanel("Index tokens", b.Panel(domain.SideIndex), width) +
		"\n" +
		RenderPanel("Query tokens", b.Panel(domain.SideQuery), width)
}

// RenderAlert draws an alert box, or "" for an empty message.
func RenderAlert(message string) string {
	if message == "" {
		return ""
	}
	return alertStyle.Render(message)
}

// RenderCatalog lists cat the way the selector groups it.
func RenderCatalog(cat *catalog.Catalog, location string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d analyzers available from %s", cat.Len(), location)))
	sb.WriteString("\n")

	for _, group := range workflow.SelectionGroups(cat) {
		sb.WriteString("\n")
		if group.Label != "" {
			sb.WriteString(headerStyle.Render(group.Label))
			sb.WriteString("\n")
		}
		for _, opt := range group.Options {
			line := "  " + opt.Label
			if opt.Disabled {
				line = dimStyle.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
