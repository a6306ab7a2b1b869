package entity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	brandScore   = 5.0
	suffixScore  = 3.0
	acronymScore = 2.0
	contextScore = 1.0
	minKeepScore = 1.0
)

// Score returns the weight of one candidate occurrence in fullText, or false
// when the candidate is rejected.
func (e *Engine) Score(candidate, fullText string, contextKeywords []string) (float64, bool) {
	return e.score(candidate, hasContext(strings.ToLower(fullText), contextKeywords))
}

func (e *Engine) score(candidate string, inContext bool) (float64, bool) {
	name := normalizeSpace(candidate)
	if name == "" {
		return 0, false
	}
	lower := strings.ToLower(name)

	if e.lex.IsStopword(lower) {
		return 0, false
	}
	if utf8.RuneCountInString(name) <= 2 && !e.lex.IsBrand(lower) {
		return 0, false
	}
	if e.allStopwords(lower) {
		return 0, false
	}

	score := 0.0
	switch {
	case e.lex.IsBrand(lower):
		score += brandScore
	case e.lex.HasCompanySuffix(lower):
		score += suffixScore
	case isAcronym(name):
		score += acronymScore
	}
	if inContext {
		score += contextScore
	}

	if score < minKeepScore {
		return 0, false
	}
	return score, true
}

func (e *Engine) allStopwords(lower string) bool {
	for _, w := range strings.Fields(lower) {
		if !e.lex.IsStopword(w) {
			return false
		}
	}
	return true
}

// hasContext reports whether any keyword occurs in the lowercased text.
func hasContext(lowerText string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lowerText, k) {
			return true
		}
	}
	return false
}

// isAcronym is true for fully uppercase names of 3 to 5 runes.
func isAcronym(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 5 {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
