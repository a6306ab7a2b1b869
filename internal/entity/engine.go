// Package entity extracts, scores, and ranks organization names mentioned in
// news articles. Every call is pure and synchronous; an Engine holds only
// read-only tables and may be shared between goroutines.
package entity

import (
	"strings"
	"unicode/utf8"

	"newsintel/internal/discovery"
	"newsintel/internal/lexicon"
)

// contextSnippetLen bounds each recorded occurrence context, in runes.
const contextSnippetLen = 100

type Engine struct {
	lex *lexicon.Lexicon
}

func NewEngine(lex *lexicon.Lexicon) *Engine {
	return &Engine{lex: lex}
}

// Accumulate scans and scores every article into a fresh Accumulator.
func (e *Engine) Accumulate(articles []discovery.Article, contextKeywords []string) *Accumulator {
	acc := NewAccumulator()
	for _, a := range articles {
		text := ScanText(a)
		inContext := hasContext(strings.ToLower(a.Text()), contextKeywords)
		snippet := truncateRunes(text, contextSnippetLen)

		for _, cand := range Scan(text) {
			name := normalizeSpace(cand)
			score, ok := e.score(name, inContext)
			if !ok {
				continue
			}
			acc.Add(name, score, snippet)
		}
	}
	return acc
}

// Extract runs the full pipeline: scan, score, accumulate, merge, rank.
func (e *Engine) Extract(articles []discovery.Article, opts Options) []RankedResult {
	return e.Rank(e.Accumulate(articles, opts.ContextKeywords), opts.MinMentions, opts.Limit)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
