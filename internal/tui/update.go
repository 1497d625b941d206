package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

// Update handles a message. All state and board mutation happens here, on the program loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case catalogLoadedMsg:
		return m.onCatalogLoaded(msg)

	case analysisDoneMsg:
		if m.session != nil {
			m.session.Finish(msg.result, msg.err)
			m.syncBoard()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	editorWidth := width - 4
	if editorWidth < 20 {
		editorWidth = 20
	}
	m.index.custom.SetWidth(editorWidth)
	m.query.custom.SetWidth(editorWidth)

	m.results.Width = width
	m.results.Height = height / 3
	if m.results.Height < 6 {
		m.results.Height = 6
	}
	m.results.SetContent(RenderBoard(m.board, width))
}

func (m Model) onCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.phase = phaseFailed
		m.loadErr = msg.err
		m.board.Alert(msg.err.Error())
		m.syncBoard()
		m.opts.Logger.Error("Failed to load analyzers", "error", msg.err)
		return m, nil
	}

	m.session = workflow.NewSession(msg.catalog, m.newOrchestrator(), m.board, m.opts.DefaultAnalyzer)
	state := m.session.State()
	m.index.selector = newSelector(msg.catalog, state.Index.AnalyzerName)
	m.query.selector = newSelector(msg.catalog, state.Query.AnalyzerName)
	m.phase = phaseReady
	m.opts.Logger.Info("Analyzers loaded", "count", msg.catalog.Len(), "default", state.Index.AnalyzerName)

	cmd := m.focusOn(fieldIndexText)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseFailed:
		if msg.String() == "q" || key.Matches(msg, m.keys.Dismiss) {
			return m, tea.Quit
		}
		return m, nil
	case phaseLoading:
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.alert = ""
		m.session.Dispatch(workflow.DismissAlert{})
		return m, nil

	case key.Matches(msg, m.keys.Next):
		cmd := m.focusOn(m.nextField(1))
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		cmd := m.focusOn(m.nextField(-1))
		return m, cmd

	case key.Matches(msg, m.keys.Analyze):
		return m.submit()

	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return m, nil

	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.LoadExample):
		if side, ok := m.editorSide(); ok {
			m.session.Dispatch(workflow.LoadExample{Side: side})
			m.side(side).custom.SetValue(m.session.State().Side(side).CustomText)
		}
		return m, nil
	}

	return m.handleFieldKey(msg)
}

func (m Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case fieldIndexText, fieldQueryText:
		side := fieldSide(m.focus)
		c := m.side(side)
		c.text, cmd = c.text.Update(msg)
		m.session.Dispatch(workflow.SetText{Side: side, Text: c.text.Value()})

	case fieldIndexMode, fieldQueryMode:
		if key.Matches(msg, m.keys.Toggle) {
			m.session.Dispatch(workflow.ToggleMode{Side: fieldSide(m.focus)})
		}

	case fieldIndexAnalyzer, fieldQueryAnalyzer:
		side := fieldSide(m.focus)
		c := m.side(side)
		if m.session.State().Side(side).Mode == workflow.ModeCustom {
			c.custom, cmd = c.custom.Update(msg)
			m.session.Dispatch(workflow.EditCustomText{Side: side, Text: c.custom.Value()})
			break
		}
		delta := 0
		switch msg.String() {
		case "left", "up":
			delta = -1
		case "right", "down":
			delta = 1
		}
		if delta != 0 && c.selector.move(delta) {
			m.session.Dispatch(workflow.SelectAnalyzer{Side: side, Name: c.selector.Selected()})
		}

	case fieldAutocomplete:
		if key.Matches(msg, m.keys.Toggle) {
			m.session.Dispatch(workflow.ToggleAutocomplete{})
		}

	case fieldAutocompleteType:
		if key.Matches(msg, m.keys.Toggle) || key.Matches(msg, m.keys.Choose) {
			kind := domain.AutocompleteNGram
			if m.session.State().Autocomplete.Kind == domain.AutocompleteNGram {
				kind = domain.AutocompleteEdgeGram
			}
			m.dispatchAutocomplete(kind)
		}

	case fieldMinGrams:
		m.minGrams, cmd = m.minGrams.Update(msg)
		m.dispatchAutocomplete(m.session.State().Autocomplete.Kind)

	case fieldMaxGrams:
		m.maxGrams, cmd = m.maxGrams.Update(msg)
		m.dispatchAutocomplete(m.session.State().Autocomplete.Kind)

	case fieldAnalyze:
		if key.Matches(msg, m.keys.Toggle) {
			return m.submit()
		}

	case fieldReset:
		if key.Matches(msg, m.keys.Toggle) {
			m.reset()
		}
	}

	return m, cmd
}

func (m *Model) dispatchAutocomplete(kind domain.AutocompleteKind) {
	m.session.Dispatch(workflow.SetAutocomplete{
		Kind:     kind,
		MinGrams: parseGrams(m.minGrams.Value()),
		MaxGrams: parseGrams(m.maxGrams.Value()),
	})
}

// parseGrams reads a gram bound. Anything that is not a number reads as 0 and fails validation.
func parseGrams(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.session.Submitting() {
		return m, nil
	}
	req, err := m.session.Start()
	m.syncBoard()
	if err != nil {
		m.opts.Logger.Debug("Submission rejected", "error", err)
		return m, nil
	}
	return m, m.analyze(req)
}

func (m *Model) reset() {
	m.session.Reset()
	m.alert = ""
	m.syncBoard()
}

// syncBoard picks up what the workflow drew on the board since the last call.
func (m *Model) syncBoard() {
	if len(m.board.Alerts) > m.seenAlerts {
		m.alert = m.board.LastAlert()
		m.seenAlerts = len(m.board.Alerts)
	}
	m.results.SetContent(RenderBoard(m.board, m.width))
	if m.board.Scrolls != m.scrolls {
		m.scrolls = m.board.Scrolls
		m.results.GotoTop()
	}
}

// editorSide returns the side whose custom editor has focus.
func (m Model) editorSide() (domain.Side, bool) {
	if m.focus != fieldIndexAnalyzer && m.focus != fieldQueryAnalyzer {
		return domain.SideIndex, false
	}
	side := fieldSide(m.focus)
	return side, m.session.State().Side(side).Mode == workflow.ModeCustom
}

func fieldSide(f field) domain.Side {
	if f >= fieldQueryText && f <= fieldQueryAnalyzer {
		return domain.SideQuery
	}
	return domain.SideIndex
}

// visible reports whether f is shown. Autocomplete parameters only show while autocomplete is on.
func (m Model) visible(f field) bool {
	switch f {
	case fieldAutocompleteType, fieldMinGrams, fieldMaxGrams:
		return m.session != nil && m.session.State().Autocomplete.Enabled
	}
	return true
}

func (m Model) nextField(delta int) field {
	f := m.focus
	for i := 0; i < int(fieldCount); i++ {
		f = (f + field(delta) + fieldCount) % fieldCount
		if m.visible(f) {
			return f
		}
	}
	return m.focus
}

// focusOn moves the focus to f, blurring every other input.
func (m *Model) focusOn(f field) tea.Cmd {
	m.focus = f
	m.index.text.Blur()
	m.query.text.Blur()
	m.index.custom.Blur()
	m.query.custom.Blur()
	m.minGrams.Blur()
	m.maxGrams.Blur()

	switch f {
	case fieldIndexText:
		return m.index.text.Focus()
	case fieldQueryText:
		return m.query.text.Focus()
	case fieldIndexAnalyzer:
		return m.index.custom.Focus()
	case fieldQueryAnalyzer:
		return m.query.custom.Focus()
	case fieldMinGrams:
		return m.minGrams.Focus()
	case fieldMaxGrams:
		return m.maxGrams.Focus()
	}
	return nil
}
