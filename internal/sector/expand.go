// Package sector turns a free-text keyword into a search phrase and the
// domain vocabulary used to reinforce entity scores.
package sector

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"newsintel/internal/lexicon"
)

const (
	// None marks a keyword that matched no sector and no fallback rule.
	None = "NONE"
	// General marks the "<term> brands/companies" fallback.
	General = "GENERAL"
)

// Context is the read-only output of Expand.
type Context struct {
	Original        string   `json:"original"`
	OptimizedQuery  string   `json:"optimized_query"`
	ContextKeywords []string `json:"context_keywords"`
	Sector          string   `json:"sector_identified"`
}

// Expander resolves keywords against a sector table.
type Expander struct {
	sectors []lexicon.Sector
}

func NewExpander(lex *lexicon.Lexicon) *Expander {
	return &Expander{sectors: lex.Sectors()}
}

// Expand maps keyword to a Context. The first sector whose trigger occurs in
// the lowercased keyword wins.
func (e *Expander) Expand(keyword string) Context {
	q := strings.ToLower(strings.TrimSpace(keyword))

	if q != "" {
		for _, s := range e.sectors {
			if !strings.Contains(q, s.Trigger) {
				continue
			}
			return Context{
				Original:        keyword,
				OptimizedQuery:  s.Query,
				ContextKeywords: lo.Uniq(s.ContextKeywords),
				Sector:          strings.ToUpper(s.Trigger),
			}
		}

		if strings.Contains(q, "brand") || strings.Contains(q, "company") {
			core := coreTerm(q)
			return Context{
				Original:        keyword,
				OptimizedQuery:  fmt.Sprintf("%s industry news OR %s market leaders", core, core),
				ContextKeywords: lo.Uniq([]string{core, "market", "sector", "business"}),
				Sector:          General,
			}
		}
	}

	return Context{
		Original:        keyword,
		OptimizedQuery:  keyword,
		ContextKeywords: []string{},
		Sector:          None,
	}
}

var genericNouns = strings.NewReplacer("brands", "", "brand", "", "companies", "", "company", "")

// coreTerm strips the generic nouns; a keyword made only of them is kept whole.
func coreTerm(q string) string {
	core := strings.Join(strings.Fields(genericNouns.Replace(q)), " ")
	if core == "" {
		return q
	}
	return core
}
