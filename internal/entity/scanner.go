package entity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"newsintel/internal/discovery"
)

// headlineOnlyLen is the title length from which the description is no
// longer scanned.
const headlineOnlyLen = 50

var (
	rePossessive  = regexp.MustCompile(`['’]s\b`)
	reCapitalized = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&]+(?:\s+[A-Z][A-Za-z0-9&]+){0,3}`)
	reAcronym     = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

	// NFKC expands these to letters that would fuse with the preceding word.
	markSymbols = strings.NewReplacer("™", " ", "℠", " ", "®", " ")
)

// ScanText returns the text scanned for candidates: the title alone when it
// is informative enough, otherwise title and description.
func ScanText(a discovery.Article) string {
	title := strings.TrimSpace(a.Title)
	if utf8.RuneCountInString(title) < headlineOnlyLen {
		return strings.TrimSpace(title + " " + strings.TrimSpace(a.Description))
	}
	return title
}

// Scan returns raw candidates from text: capitalized phrases of up to four
// tokens followed by bare acronyms. An acronym can appear in both lists.
func Scan(text string) []string {
	text = rePossessive.ReplaceAllString(norm.NFKC.String(markSymbols.Replace(text)), "")

	phrases := reCapitalized.FindAllString(text, -1)
	acronyms := reAcronym.FindAllString(text, -1)

	out := make([]string, 0, len(phrases)+len(acronyms))
	for _, p := range phrases {
		out = append(out, normalizeSpace(p))
	}
	return append(out, acronyms...)
}

// normalizeSpace collapses whitespace runs inside a candidate to one space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
