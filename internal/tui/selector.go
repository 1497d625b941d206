package tui

import (
	"strings"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

const selectorRows = 7

type selectEntry struct {
	group  string
	option workflow.SelectOption
}

// selector is a grouped analyzer picker. Disabled entries are listed but the cursor skips them.
type selector struct {
	entries []selectEntry
	cursor  int
}

func newSelector(cat *catalog.Catalog, selected string) selector {
	s := selector{cursor: -1}
	for _, group := range workflow.SelectionGroups(cat) {
		for _, opt := range group.Options {
			if opt.Name == selected && !opt.Disabled {
				s.cursor = len(s.entries)
			}
			s.entries = append(s.entries, selectEntry{group: group.Label, option: opt})
		}
	}
	return s
}

// Selected returns the selected analyzer name, or "".
func (s selector) Selected() string {
	if s.cursor < 0 || s.cursor >= len(s.entries) {
		return ""
	}
	return s.entries[s.cursor].option.Name
}

// move steps the cursor by delta to the next enabled entry. It reports whether the
// selection changed.
func (s *selector) move(delta int) bool {
	for i := s.cursor + delta; i >= 0 && i < len(s.entries); i += delta {
		if !s.entries[i].option.Disabled {
			s.cursor = i
			return true
		}
	}
	return false
}

func (s selector) view(focused bool) string {
	if len(s.entries) == 0 {
		return dimStyle.Render("  no analyzers available")
	}

	if !focused {
		cur := "(none)"
		if s.cursor >= 0 {
			cur = s.entries[s.cursor].option.Label
		}
		return "  ‹ " + cur + " ›"
	}

	start := s.cursor - selectorRows/2
	if start > len(s.entries)-selectorRows {
		start = len(s.entries) - selectorRows
	}
	if start < 0 {
		start = 0
	}
	end := start + selectorRows
	if end > len(s.entries) {
		end = len(s.entries)
	}

	var lines []string
	group := ""
	if start > 0 {
		group = s.entries[start-1].group
	}
	for i := start; i < end; i++ {
		e := s.entries[i]
		if e.group != group {
			group = e.group
			if group != "" {
				lines = append(lines, labelStyle.Render("  "+group))
			}
		}

		line := "    " + e.option.Label
		switch {
		case i == s.cursor:
			line = focusStyle.Render("  ▸ " + e.option.Label)
		case e.option.Disabled:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
