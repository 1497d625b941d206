package workflow

import (
	"fmt"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// NoTokensMessage is shown for a side whose analysis produced no tokens.
const NoTokensMessage = "No non-stopword tokens were returned. Try again with more text?"

// TokensCreatedMessage reports how many tokens a side produced.
func TokensCreatedMessage(count int) string {
	return fmt.Sprintf("Huzzah! %d unique tokens were created.", count)
}

// AnalyzerUsedMessage names the analyzer behind the index tokens.
func AnalyzerUsedMessage(analyzer string) string {
	return fmt.Sprintf("You used the %s analyzer, try a different one to see changes.", analyzer)
}

// Render draws result on surface, replacing whatever was drawn before, then reveals the
// results area. A nil result renders as two empty sides.
func Render(result *domain.AnalysisResult, surface Surface) {
	if result == nil {
		result = &domain.AnalysisResult{}
	}

	for _, side := range []domain.Side{domain.SideIndex, domain.SideQuery} {
		tokens := result.Tokens(side)
		if len(tokens) == 0 {
			surface.ClearTokenCards(side)
			surface.SetStatus(side, StatusNeutral, NoTokensMessage)
			continue
		}

		surface.RenderTokenCards(side, tokens)
		msg := TokensCreatedMessage(len(tokens))
		if side == domain.SideIndex {
			msg += "\n" + AnalyzerUsedMessage(result.AnalyzerUsed)
		}
		surface.SetStatus(side, StatusSuccess, msg)
	}

	surface.ShowResults()
	surface.ScrollToResults()
}

// Reset hides the results area and clears both sides' cards.
func Reset(surface Surface) {
	surface.HideResults()
	surface.ClearTokenCards(domain.SideIndex)
	surface.ClearTokenCards(domain.SideQuery)
}
