package tui

import (
	"strings"
	"testing"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

func TestRenderBoard_Hidden(t *testing.T) {
	if got := RenderBoard(workflow.NewBoard(), 80); got != "" {
		t.Errorf("Expected nothing for a hidden board, got %q", got)
	}
}

func TestRenderBoard_Sides(t *testing.T) {
	board := workflow.NewBoard()
	workflow.Render(&domain.AnalysisResult{
		IndexTokens:  []domain.TokenInfo{{Text: "quick", Length: 5}, {Text: "fox", Length: 3, Matched: true}},
		AnalyzerUsed: "lucene.standard",
	}, board)

	out := RenderBoard(board, 80)
	for _, want := range []string{
		"Index tokens",
		"quick",
		"5 characters",
		"Huzzah! 2 unique tokens were created.",
		"Query tokens",
		workflow.NoTokensMessage,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderPanel_WrapsCards(t *testing.T) {
	var cards []workflow.Card
	for i := 0; i < 12; i++ {
		cards = append(cards, workflow.Card{Text: "token", Length: 5})
	}
	out := RenderPanel("Index tokens", &workflow.Panel{Cards: cards}, 40)

	if strings.Count(out, "token") != 12+1 {
		t.Errorf("Expected every card plus the title, got:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := len([]rune(line)); w > 40 {
			t.Errorf("Line wider than 40 columns (%d): %q", w, line)
		}
	}
}

func TestRenderAlert(t *testing.T) {
	if RenderAlert("") != "" {
		t.Error("Expected nothing for an empty alert")
	}
	if !strings.Contains(RenderAlert("boom"), "boom") {
		t.Error("Expected the message in the alert")
	}
}

func TestRenderCatalog(t *testing.T) {
	cat := catalog.New([]domain.AnalyzerDescriptor{
		{Name: "lucene.standard", Category: domain.CategoryBase},
		{Name: "lucene.english", Category: domain.CategoryLanguage},
		{Name: "lucene.bengali", Category: domain.CategoryLanguage, AdditionalLabel: "(not yet supported)", Disabled: true},
	})

	out := RenderCatalog(cat, "the in-process bleve engine")
	for _, want := range []string{
		"3 analyzers available from the in-process bleve engine",
		"lucene.standard",
		catalog.LanguageGroupLabel,
		"lucene.bengali (not yet supported)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}

func TestSelector(t *testing.T) {
	cat := catalog.New([]domain.AnalyzerDescriptor{
		{Name: "lucene.standard", Category: domain.CategoryBase},
		{Name: "lucene.english", Category: domain.CategoryLanguage},
		{Name: "lucene.bengali", Category: domain.CategoryLanguage, Disabled: true},
		{Name: "lucene.french", Category: domain.CategoryLanguage},
	})

	s := newSelector(cat, "lucene.english")
	if s.Selected() != "lucene.english" {
		t.Fatalf("Expected lucene.english, got %q", s.Selected())
	}
	if !s.move(1) || s.Selected() != "lucene.french" {
		t.Errorf("Expected the disabled entry to be skipped, got %q", s.Selected())
	}
	if s.move(1) {
		t.Error("Expected no move past the last entry")
	}

	disabled := newSelector(cat, "lucene.bengali")
	if disabled.Selected() != "" {
		t.Errorf("Expected no selection for a disabled analyzer, got %q", disabled.Selected())
	}
	if !strings.Contains(s.view(true), "lucene.bengali") {
		t.Error("Expected disabled entries to be listed")
	}
}
