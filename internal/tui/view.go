package tui

import (
	"fmt"
	"strings"

	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

// View renders the form, the alert, the results and the key help.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("analyzer-lab"))
	if m.opts.Engine != nil {
		sb.WriteString(dimStyle.Render("  engine: " + m.opts.Engine.Location()))
	}
	sb.WriteString("\n\n")

	switch m.phase {
	case phaseLoading:
		sb.WriteString(dimStyle.Render("Loading analyzers..."))
		sb.WriteString("\n")
		return sb.String()
	case phaseFailed:
		sb.WriteString(RenderAlert(m.loadErr.Error()))
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("press q to quit"))
		sb.WriteString("\n")
		return sb.String()
	}

	state := m.session.State()
	m.writeSide(&sb, domain.SideIndex, state)
	m.writeSide(&sb, domain.SideQuery, state)
	m.writeAutocomplete(&sb, state.Autocomplete)
	sb.WriteString("\n")
	sb.WriteString(m.buttons())
	sb.WriteString("\n")

	if m.alert != "" {
		sb.WriteString(RenderAlert(m.alert))
		sb.WriteString("\n")
	}

	if m.board.Visible {
		sb.WriteString("\n")
		sb.WriteString(m.results.View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) label(f field, text string) string {
	if m.focus == f {
		return focusStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) writeSide(sb *strings.Builder, side domain.Side, state workflow.State) {
	textField, modeField, analyzerField := fieldIndexText, fieldIndexMode, fieldIndexAnalyzer
	if side == domain.SideQuery {
		textField, modeField, analyzerField = fieldQueryText, fieldQueryMode, fieldQueryAnalyzer
	}
	c := m.side(side)
	ss := state.Side(side)
	title := strings.ToUpper(side.String()[:1]) + side.String()[1:]

	sb.WriteString(m.label(textField, title+" text"))
	sb.WriteString("\n")
	sb.WriteString(c.text.View())
	sb.WriteString("\n")

	predefined, custom := "( ) predefined", "( ) custom"
	if ss.Mode == workflow.ModeCustom {
		custom = "(•) custom"
	} else {
		predefined = "(•) predefined"
	}
	sb.WriteString(m.label(modeField, title+" analyzer  "+predefined+"  "+custom))
	sb.WriteString("\n")

	if ss.Mode == workflow.ModeCustom {
		sb.WriteString(c.custom.View())
		if m.focus == analyzerField {
			sb.WriteString("\n")
			sb.WriteString(dimStyle.Render("ctrl+e loads the example definition"))
		}
	} else {
		sb.WriteString(c.selector.view(m.focus == analyzerField))
	}
	sb.WriteString("\n\n")
}

func (m Model) writeAutocomplete(sb *strings.Builder, ac domain.AutocompleteConfig) {
	box := "[ ]"
	if ac.Enabled {
		box = "[x]"
	}
	sb.WriteString(m.label(fieldAutocomplete, box+" autocomplete"))
	if ac.Enabled {
		sb.WriteString("  ")
		sb.WriteString(m.label(fieldAutocompleteType, fmt.Sprintf("type ‹%s›", ac.Kind)))
		sb.WriteString("  ")
		sb.WriteString(m.label(fieldMinGrams, "min "))
		sb.WriteString(m.minGrams.View())
		sb.WriteString(" ")
		sb.WriteString(m.label(fieldMaxGrams, "max "))
		sb.WriteString(m.maxGrams.View())
	}
	sb.WriteString("\n")
}

func (m Model) buttons() string {
	analyze := "Analyze"
	if m.board.Busy {
		analyze = "Analyzing..."
	}

	analyzeStyle, resetStyle := buttonStyle, buttonStyle
	switch m.focus {
	case fieldAnalyze:
		analyzeStyle = focusedButtonStyle
	case fieldReset:
		resetStyle = focusedButtonStyle
	}
	return analyzeStyle.Render(analyze) + " " + resetStyle.Render("Reset")
}
