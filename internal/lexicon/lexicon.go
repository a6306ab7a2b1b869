// Package lexicon holds the fixed lookup tables used by sector expansion and
// entity scoring. The tables are data, not code: the defaults are an embedded
// YAML document and a user file can extend or override them.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Sector maps a keyword trigger to an optimized search query and the domain
// vocabulary expected around valid entities of that sector.
type Sector struct {
	Trigger         string   `yaml:"trigger" json:"trigger"`
	Query           string   `yaml:"query" json:"query"`
	ContextKeywords []string `yaml:"context_keywords" json:"context_keywords"`
}

// Tables is the on-disk shape of a lexicon file.
type Tables struct {
	Sectors           []Sector `yaml:"sectors"`
	Stopwords         []string `yaml:"stopwords"`
	Brands            []string `yaml:"brands"`
	CompanySuffixes   []string `yaml:"company_suffixes"`
	GovernmentMarkers []string `yaml:"government_markers"`
	ResearchMarkers   []string `yaml:"research_markers"`
}

// Lexicon is the compiled, read-only form of Tables. It is safe for
// concurrent use.
type Lexicon struct {
	sectors    []Sector
	stopwords  map[string]struct{}
	brands     map[string]struct{}
	suffixes   []string
	government []string
	research   []string
}

var loadDefault = sync.OnceValues(func() (*Lexicon, error) {
	t, err := parseTables(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("parse embedded lexicon: %w", err)
	}
	return New(t), nil
})

// Default returns the lexicon compiled from the embedded tables.
func Default() (*Lexicon, error) {
	return loadDefault()
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded table.
func MustDefault() *Lexicon {
	lex, err := Default()
	if err != nil {
		panic(err)
	}
	return lex
}

// Load returns the default lexicon merged with the tables in path. An empty
// path returns the defaults.
func Load(path string) (*Lexicon, error) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return Default()
	}

	data, err := os.ReadFile(filepath.Clean(clean))
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	overrides, err := parseTables(data)
	if err != nil {
		return nil, fmt.Errorf("decode lexicon %s: %w", clean, err)
	}

	base, err := parseTables(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("parse embedded lexicon: %w", err)
	}
	return New(mergeTables(base, overrides)), nil
}

func parseTables(data []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// mergeTables replaces sectors that share a trigger, appends new sectors in
// file order, and unions the word lists.
func mergeTables(base, overrides Tables) Tables {
	merged := Tables{
		Sectors:           append([]Sector(nil), base.Sectors...),
		Stopwords:         append(append([]string(nil), base.Stopwords...), overrides.Stopwords...),
		Brands:            append(append([]string(nil), base.Brands...), overrides.Brands...),
		CompanySuffixes:   append(append([]string(nil), base.CompanySuffixes...), overrides.CompanySuffixes...),
		GovernmentMarkers: append(append([]string(nil), base.GovernmentMarkers...), overrides.GovernmentMarkers...),
		ResearchMarkers:   append(append([]string(nil), base.ResearchMarkers...), overrides.ResearchMarkers...),
	}

	for _, s := range overrides.Sectors {
		replaced := false
		for i := range merged.Sectors {
			if strings.EqualFold(merged.Sectors[i].Trigger, s.Trigger) {
				merged.Sectors[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Sectors = append(merged.Sectors, s)
		}
	}
	return merged
}

// New compiles tables into a Lexicon. Words are lowercased and trimmed;
// sectors with an empty trigger are dropped.
func New(t Tables) *Lexicon {
	lex := &Lexicon{
		stopwords:  toSet(t.Stopwords),
		brands:     toSet(t.Brands),
		suffixes:   cleanList(t.CompanySuffixes),
		government: cleanList(t.GovernmentMarkers),
		research:   cleanList(t.ResearchMarkers),
	}
	for _, s := range t.Sectors {
		trigger := strings.ToLower(strings.TrimSpace(s.Trigger))
		if trigger == "" {
			continue
		}
		lex.sectors = append(lex.sectors, Sector{
			Trigger:         trigger,
			Query:           strings.TrimSpace(s.Query),
			ContextKeywords: cleanList(s.ContextKeywords),
		})
	}
	return lex
}

// Sectors returns the sector table in match order.
func (l *Lexicon) Sectors() []Sector {
	out := make([]Sector, len(l.sectors))
	for i, s := range l.sectors {
		s.ContextKeywords = append([]string(nil), s.ContextKeywords...)
		out[i] = s
	}
	return out
}

// IsStopword reports whether the lowercased word is in the stopword set.
func (l *Lexicon) IsStopword(lower string) bool {
	_, ok := l.stopwords[lower]
	return ok
}

// IsBrand reports whether the lowercased name exactly matches a known brand.
func (l *Lexicon) IsBrand(lower string) bool {
	_, ok := l.brands[lower]
	return ok
}

// HasCompanySuffix reports whether any company suffix occurs in lower.
func (l *Lexicon) HasCompanySuffix(lower string) bool {
	return containsAny(lower, l.suffixes)
}

// IsGovernment reports whether lower names a government body.
func (l *Lexicon) IsGovernment(lower string) bool {
	return containsAny(lower, l.government)
}

// IsResearch reports whether lower names a research organization.
func (l *Lexicon) IsResearch(lower string) bool {
	return containsAny(lower, l.research)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range cleanList(words) {
		set[w] = struct{}{}
	}
	return set
}

func cleanList(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
