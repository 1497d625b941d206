package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/engine"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

// Toolset holds what the tools share: the engine and the catalog, fetched on first use.
type Toolset struct {
	engine          engine.Engine
	defaultAnalyzer string
	timeout         time.Duration
	logger          *slog.Logger

	mu      sync.Mutex
	catalog *catalog.Catalog
}

// NewToolset creates the shared state for the tools described by cfg.
func NewToolset(cfg ServerConfig) *Toolset {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Toolset{
		engine:          cfg.Engine,
		defaultAnalyzer: cfg.DefaultAnalyzer,
		timeout:         cfg.Timeout,
		logger:          logger,
	}
}

// loadCatalog returns the cached catalog, fetching it when no fetch has succeeded yet.
func (t *Toolset) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.catalog != nil {
		return t.catalog, nil
	}
	cat, err := catalog.Load(ctx, t.engine)
	if err != nil {
		t.logger.Error("Failed to load analyzers", "location", t.engine.Location(), "error", err)
		return nil, err
	}
	t.catalog = cat
	return cat, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// ListAnalyzersArgument takes no parameters.
type ListAnalyzersArgument struct{}

// ListAnalyzersHandler handles the list_analyzers MCP tool.
type ListAnalyzersHandler struct {
	tools *Toolset
}

// NewListAnalyzersHandler creates a new list_analyzers handler.
func NewListAnalyzersHandler(tools *Toolset) *ListAnalyzersHandler {
	return &ListAnalyzersHandler{tools: tools}
}

// Handle returns the analyzer catalog grouped the way the selector shows it.
func (h *ListAnalyzersHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ListAnalyzersArgument) (*mcp.CallToolResult, any, error) {
	cat, err := h.tools.loadCatalog(ctx)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return textResult(formatCatalog(cat, h.tools.engine.Location())), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ListAnalyzersHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_analyzers",
		Description: "List the predefined analyzers offered by the analysis engine, grouped into base and language analyzers",
	}
}

// RegisterListAnalyzersTool registers the list_analyzers tool with an MCP server.
func RegisterListAnalyzersTool(server *mcp.Server, tools *Toolset) {
	handler := NewListAnalyzersHandler(tools)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// AnalyzeArgument defines analyze_text parameters.
type AnalyzeArgument struct {
	IndexText           string `json:"indexText" jsonschema:"Text that would be stored in the index"`
	QueryText           string `json:"queryText" jsonschema:"Text a user would search with"`
	IndexAnalyzer       string `json:"indexAnalyzer,omitempty" jsonschema:"Predefined analyzer for the index text, e.g. lucene.standard"`
	QueryAnalyzer       string `json:"queryAnalyzer,omitempty" jsonschema:"Predefined analyzer for the query text"`
	CustomIndexAnalyzer string `json:"customIndexAnalyzer,omitempty" jsonschema:"Custom pipeline definition for the index text as JSON; overrides indexAnalyzer"`
	CustomQueryAnalyzer string `json:"customQueryAnalyzer,omitempty" jsonschema:"Custom pipeline definition for the query text as JSON; overrides queryAnalyzer"`
	Autocomplete        bool   `json:"autocomplete,omitempty" jsonschema:"Expand tokens into shingles and n-grams the way an autocomplete field would"`
	AutocompleteType    string `json:"autocompleteType,omitempty" jsonschema:"edgeGram (default) or nGram"`
	MinGrams            int    `json:"minGrams,omitempty" jsonschema:"Smallest gram size, default 3"`
	MaxGrams            int    `json:"maxGrams,omitempty" jsonschema:"Largest gram size, default 15"`
}

func (a AnalyzeArgument) inputs() workflow.Inputs {
	return workflow.Inputs{
		IndexText:        a.IndexText,
		QueryText:        a.QueryText,
		IndexAnalyzer:    a.IndexAnalyzer,
		QueryAnalyzer:    a.QueryAnalyzer,
		IndexCustom:      a.CustomIndexAnalyzer,
		QueryCustom:      a.CustomQueryAnalyzer,
		Autocomplete:     a.Autocomplete,
		AutocompleteType: a.AutocompleteType,
		MinGrams:         a.MinGrams,
		MaxGrams:         a.MaxGrams,
	}
}

// AnalyzeHandler handles the analyze_text MCP tool.
type AnalyzeHandler struct {
	tools *Toolset
}

// NewAnalyzeHandler creates a new analyze_text handler.
func NewAnalyzeHandler(tools *Toolset) *AnalyzeHandler {
	return &AnalyzeHandler{tools: tools}
}

// Handle runs one analysis through a fresh session and returns the rendered board.
func (h *AnalyzeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeArgument) (*mcp.CallToolResult, any, error) {
	cat, err := h.tools.loadCatalog(ctx)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	board := workflow.NewBoard()
	orchestrator := workflow.NewOrchestrator(h.tools.engine,
		workflow.WithTimeout(h.tools.timeout),
		workflow.WithLogger(h.tools.logger))
	session := workflow.NewSession(cat, orchestrator, board, h.tools.defaultAnalyzer)
	session.Apply(args.inputs())

	if err := session.Analyze(ctx); err != nil {
		return errorResult(failureMessage(err)), nil, nil
	}

	return textResult(formatBoard(board, session.Result())), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *AnalyzeHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "analyze_text",
		Description: "Analyze an index text and a query text with predefined or custom analyzers and show the tokens each produces and which tokens match",
	}
}

// RegisterAnalyzeTool registers the analyze_text tool with an MCP server.
func RegisterAnalyzeTool(server *mcp.Server, tools *Toolset) {
	handler := NewAnalyzeHandler(tools)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// failureMessage returns the text shown to the caller. Submission failures carry their cause,
// since an agent cannot look at the logs.
func failureMessage(err error) string {
	var serr *workflow.SubmissionError
	if errors.As(err, &serr) && serr.Err != nil {
		return fmt.Sprintf("%s (%s)", serr.Error(), serr.Err)
	}
	return err.Error()
}

func formatCatalog(cat *catalog.Catalog, location string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d analyzers available from %s:\n", cat.Len(), location))

	for _, group := range workflow.SelectionGroups(cat) {
		sb.WriteString("\n")
		if group.Label != "" {
			sb.WriteString(fmt.Sprintf("### %s\n", group.Label))
		}
		for _, opt := range group.Options {
			line := fmt.Sprintf("- `%s`", opt.Name)
			if label := strings.TrimSpace(strings.TrimPrefix(opt.Label, opt.Name)); label != "" {
				line += " " + label
			}
			if opt.Disabled {
				line += " (unavailable)"
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

func formatBoard(board *workflow.Board, result *domain.AnalysisResult) string {
	var sb strings.Builder

	for _, side := range []domain.Side{domain.SideIndex, domain.SideQuery} {
		panel := board.Panel(side)
		sb.WriteString(fmt.Sprintf("## %s tokens\n\n", titleCase(side.String())))
		if panel.Status != nil {
			sb.WriteString(panel.Status.Message)
			sb.WriteString("\n")
		}
		if len(panel.Cards) > 0 {
			sb.WriteString("\n| Token | Length | Matched |\n|---|---|---|\n")
			for _, card := range panel.Cards {
				matched := ""
				if card.Matched {
					matched = "yes"
				}
				sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(card.Text), card.Caption(), matched))
			}
		}
		sb.WriteString("\n")
	}

	if result != nil && len(result.MatchingTokens) > 0 {
		sb.WriteString(fmt.Sprintf("**Matching tokens**: %s\n", strings.Join(result.MatchingTokens, ", ")))
		sb.WriteString(fmt.Sprintf("**Matched**: %d of %d index tokens, %d of %d query tokens\n",
			result.MatchedCount(domain.SideIndex), len(result.IndexTokens),
			result.MatchedCount(domain.SideQuery), len(result.QueryTokens)))
	} else {
		sb.WriteString("**Matching tokens**: none\n")
	}
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
