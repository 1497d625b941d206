package domain

// TokenInfo is a single token produced by the engine for one side.
// Matched means the engine found the same token on the opposite side.
type TokenInfo struct {
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Matched bool   `json:"matched"`
}

// AnalysisResult is the engine's answer to one AnalysisRequest. It is replaced wholesale on
// each submission and never merged with a previous result.
type AnalysisResult struct {
	IndexTokens    []TokenInfo `json:"indexTokens"`
	QueryTokens    []TokenInfo `json:"queryTokens"`
	MatchingTokens []string    `json:"matchingTokens,omitempty"`
	AnalyzerUsed   string      `json:"analyzerUsed"`
}

// Tokens returns the token list for the given side.
func (r *AnalysisResult) Tokens(side Side) []TokenInfo {
	if side == SideQuery {
		return r.QueryTokens
	}
	return r.IndexTokens
}

// MatchedCount returns how many tokens on the given side are matched.
func (r *AnalysisResult) MatchedCount(side Side) int {
	n := 0
	for _, t := range r.Tokens(side) {
		if t.Matched {
			n++
		}
	}
	return n
}
