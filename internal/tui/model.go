// Package tui is the interactive terminal surface: inputs for both texts, analyzer selection or
// custom definitions per side, autocomplete settings, and the token board.
package tui

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/engine"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

// Options configures the terminal UI.
type Options struct {
	Engine          engine.Engine
	DefaultAnalyzer string
	Timeout         time.Duration
	Logger          *slog.Logger
}

// field is a focusable control. The order is the tab order.
type field int

const (
	fieldIndexText field = iota
	fieldIndexMode
	fieldIndexAnalyzer
	fieldQueryText
	fieldQueryMode
	fieldQueryAnalyzer
	fieldAutocomplete
	fieldAutocompleteType
	fieldMinGrams
	fieldMaxGrams
	fieldAnalyze
	fieldReset
	fieldCount
)

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseFailed
)

// Messages produced by commands.
type (
	catalogLoadedMsg struct {
		catalog *catalog.Catalog
		err     error
	}

	analysisDoneMsg struct {
		result *domain.AnalysisResult
		err    error
	}
)

// sideControls are the per-side widgets.
type sideControls struct {
	text     textinput.Model
	custom   textarea.Model
	selector selector
}

// Model is the bubbletea model of the terminal UI.
type Model struct {
	ctx     context.Context
	opts    Options
	phase   phase
	loadErr error

	board   *workflow.Board
	session *workflow.Session

	index sideControls
	query sideControls

	minGrams textinput.Model
	maxGrams textinput.Model

	focus      field
	alert      string
	seenAlerts int

	results viewport.Model
	scrolls int
	keys    keyMap
	help    help.Model

	width  int
	height int
}

// New creates the model. The catalog is fetched by Init.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	def := domain.DefaultAutocompleteConfig()
	m := Model{
		ctx:      ctx,
		opts:     opts,
		board:    workflow.NewBoard(),
		index:    newSideControls("The quick brown fox"),
		query:    newSideControls("fox"),
		minGrams: newNumberInput(def.MinGrams),
		maxGrams: newNumberInput(def.MaxGrams),
		results:  viewport.New(defaultWidth, 12),
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    defaultWidth,
	}
	return m
}

func newSideControls(placeholder string) sideControls {
	text := textinput.New()
	text.Placeholder = placeholder
	text.Prompt = "> "

	custom := textarea.New()
	custom.Placeholder = "Paste a custom analyzer definition (JSON) or press ctrl+e to load the example"
	custom.ShowLineNumbers = false
	custom.CharLimit = 0
	custom.SetHeight(8)
	custom.SetWidth(defaultWidth - 4)

	return sideControls{text: text, custom: custom}
}

func newNumberInput(value int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 3
	in.Width = 4
	in.SetValue(strconv.Itoa(value))
	return in
}

func (m *Model) side(side domain.Side) *sideControls {
	if side == domain.SideQuery {
		return &m.query
	}
	return &m.index
}

// Init starts fetching the catalog.
func (m Model) Init() tea.Cmd {
	return m.loadCatalog()
}

func (m Model) loadCatalog() tea.Cmd {
	ctx, lister := m.ctx, m.opts.Engine
	return func() tea.Msg {
		cat, err := catalog.Load(ctx, lister)
		return catalogLoadedMsg{catalog: cat, err: err}
	}
}

// analyze runs the engine call off the program loop.
func (m Model) analyze(req domain.AnalysisRequest) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		result, err := session.Execute(ctx, req)
		return analysisDoneMsg{result: result, err: err}
	}
}

func (m Model) newOrchestrator() *workflow.Orchestrator {
	return workflow.NewOrchestrator(m.opts.Engine,
		workflow.WithTimeout(m.opts.Timeout),
		workflow.WithLogger(m.opts.Logger))
}

// State returns the session state, or the zero State before the catalog is loaded.
func (m Model) State() workflow.State {
	if m.session == nil {
		return workflow.State{}
	}
	return m.session.State()
}

// Board returns the surface the model draws.
func (m Model) Board() *workflow.Board { return m.board }

// Alert returns the alert currently shown, or "".
func (m Model) Alert() string { return m.alert }

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	programOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	p := tea.NewProgram(New(ctx, opts), programOpts...)
	_, err := p.Run()
	return err
}

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	Toggle      key.Binding
	Choose      key.Binding
	Analyze     key.Binding
	Reset       key.Binding
	LoadExample key.Binding
	Dismiss     key.Binding
	Scroll      key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Choose:      key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←/→", "choose")),
		Analyze:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze")),
		Reset:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		LoadExample: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "load example")),
		Dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Scroll:      key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll results")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Choose, k.Analyze, k.Reset, k.LoadExample, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Toggle, k.Choose},
		{k.Analyze, k.Reset, k.LoadExample},
		{k.Dismiss, k.Scroll, k.Quit},
	}
}
