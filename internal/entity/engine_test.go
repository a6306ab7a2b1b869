package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsintel/internal/discovery"
	"newsintel/internal/lexicon"
)

func newTestEngine() *Engine {
	return NewEngine(lexicon.MustDefault())
}

func articles(titles ...string) []discovery.Article {
	out := make([]discovery.Article, len(titles))
	for i, t := range titles {
		out[i] = discovery.Article{Title: t, Link: "https://news.example/" + t}
	}
	return out
}

func repeat(title string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = title
	}
	return out
}

func TestScore(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name      string
		candidate string
		text      string
		keywords  []string
		want      float64
		wantOK    bool
	}{
		{name: "known brand", candidate: "Tesla", text: "Tesla cuts prices", want: 5, wantOK: true},
		{name: "known brand with context", candidate: "Tesla", text: "Tesla battery range", keywords: []string{"battery"}, want: 6, wantOK: true},
		{name: "company suffix", candidate: "Acme Holdings", text: "Acme Holdings", want: 3, wantOK: true},
		{name: "brand wins over suffix", candidate: "Tata Motors", text: "Tata Motors", want: 5, wantOK: true},
		{name: "acronym", candidate: "XYZQ", text: "XYZQ", want: 2, wantOK: true},
		{name: "six letter acronym gets no bonus", candidate: "ABCDEF", text: "ABCDEF", wantOK: false},
		{name: "plain word rejected", candidate: "Zorbix", text: "Zorbix", wantOK: false},
		{name: "plain word kept by context", candidate: "Zorbix", text: "Zorbix opens charging hub", keywords: []string{"charging"}, want: 1, wantOK: true},
		{name: "context is case insensitive", candidate: "Zorbix", text: "Zorbix CHARGING", keywords: []string{"Charging"}, want: 1, wantOK: true},
		{name: "stopword", candidate: "Electric", text: "Electric", keywords: []string{"electric"}, wantOK: false},
		{name: "all stopwords", candidate: "The Market", text: "The Market", keywords: []string{"market"}, wantOK: false},
		{name: "short non brand", candidate: "AI", text: "AI", keywords: []string{"ai"}, wantOK: false},
		{name: "short brand", candidate: "GM", text: "GM", want: 5, wantOK: true},
		{name: "blank", candidate: "  ", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Score(tt.candidate, tt.text, tt.keywords)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestRankEmpty(t *testing.T) {
	e := newTestEngine()
	got := e.Extract(nil, Options{MinMentions: 2})
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = e.Rank(NewAccumulator(), 0, 0)
	assert.Empty(t, got)
}

func TestRankBrandFrequency(t *testing.T) {
	e := newTestEngine()
	titles := append(repeat("Tesla launches new model", 6), repeat("BYD expands factory", 2)...)

	got := e.Extract(articles(titles...), Options{MinMentions: 2})
	require.Len(t, got, 2)

	assert.Equal(t, "Tesla", got[0].Name)
	assert.Equal(t, 1, got[0].Rank)
	assert.InDelta(t, 30, got[0].Score, 1e-9)
	assert.Equal(t, 10, got[0].Mentions)
	assert.Equal(t, 95.0, got[0].Confidence)
	assert.Equal(t, TypeCompany, got[0].EntityType)
	assert.Equal(t, 1, got[0].ContextDiversity)
	assert.InDelta(t, 60.0, got[0].Percentage, 1e-9)

	assert.Equal(t, "BYD", got[1].Name)
	assert.Equal(t, 2, got[1].Rank)
	assert.InDelta(t, 20, got[1].Score, 1e-9, "acronym is captured by both patterns")
	assert.Equal(t, TypeCompanyAcronym, got[1].EntityType)
	assert.InDelta(t, 40.0, got[1].Percentage, 1e-9)
}

func TestRankMergesContainedNames(t *testing.T) {
	e := newTestEngine()
	got := e.Extract(articles(
		"Tata Motors unveils SUV",
		"Tata expands plant",
		"Tata Motors shares jump",
	), Options{MinMentions: 2})

	require.Len(t, got, 1)
	assert.Equal(t, "Tata Motors", got[0].Name, "the first-seen form names the bucket")
	assert.InDelta(t, 15, got[0].Score, 1e-9)
	assert.Equal(t, 3, got[0].ContextDiversity)
}

func TestRankMergeFirstMatchWins(t *testing.T) {
	e := newTestEngine()
	acc := NewAccumulator()
	acc.Add("Alpha Corp", 3, "a")
	acc.Add("Beta Alpha Labs", 3, "b")
	acc.Add("Alpha", 1, "c")

	got := e.Rank(acc, 0, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha Corp", got[0].Name)
	assert.InDelta(t, 4, got[0].Score, 1e-9, "Alpha joins the first bucket that contains it")
	assert.Equal(t, "Beta Alpha Labs", got[1].Name)
	assert.InDelta(t, 3, got[1].Score, 1e-9)
}

func TestRankMergeOrderDependence(t *testing.T) {
	e := newTestEngine()
	acc := NewAccumulator()
	acc.Add("Alpha", 1, "c")
	acc.Add("Alpha Corp", 3, "a")
	acc.Add("Beta Alpha Labs", 3, "b")

	got := e.Rank(acc, 0, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.InDelta(t, 7, got[0].Score, 1e-9)
	assert.Equal(t, 3, got[0].ContextDiversity)
}

func TestRankStableTiesAndLimit(t *testing.T) {
	e := newTestEngine()
	acc := NewAccumulator()
	names := []string{"Kappa Corp", "Lambda Corp", "Mu Corp", "Nu Corp", "Xi Corp"}
	for _, n := range names {
		acc.Add(n, 3, n)
	}
	acc.Add("Omicron Holdings", 9, "o")

	got := e.Rank(acc, 0, 4)
	require.Len(t, got, 4)
	assert.Equal(t, "Omicron Holdings", got[0].Name)
	for i, n := range names[:3] {
		assert.Equal(t, n, got[i+1].Name, "ties keep discovery order")
		assert.Equal(t, i+2, got[i+1].Rank)
	}

	assert.Len(t, e.Rank(acc, 0, 0), 6, "limit <= 0 uses the default")
}

func TestRankFiltersBelowMinMentions(t *testing.T) {
	e := newTestEngine()
	acc := NewAccumulator()
	acc.Add("Acme Corp", 3, "a")
	acc.Add("Tesla", 5, "b")

	got := e.Rank(acc, 4, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Tesla", got[0].Name)
	assert.Equal(t, 100.0, got[0].Percentage, "denominator is the post-filter total")
	assert.Equal(t, 1, got[0].Mentions)
}

func TestRankIsIdempotent(t *testing.T) {
	e := newTestEngine()
	acc := e.Accumulate(articles(
		"Tesla and BYD trade blows",
		"Ministry of Heavy Industries backs GM",
		"Indian Institute of Science partners Tata Motors",
		"Tesla launches new model",
	), []string{"motor"})
	before := acc.Entities()

	first := e.Rank(acc, 0, 0)
	second := e.Rank(acc, 0, 0)
	assert.Equal(t, first, second)
	assert.Equal(t, before, acc.Entities(), "ranking does not mutate the accumulator")
}

func TestRankEntityTypes(t *testing.T) {
	e := newTestEngine()
	acc := NewAccumulator()
	acc.Add("Ministry of Finance", 3, "a")
	acc.Add("Stanford University", 3, "b")
	acc.Add("XYZQ", 2, "c")
	acc.Add("Acme Holdings", 3, "d")

	byName := map[string]EntityType{}
	for _, r := range e.Rank(acc, 0, 0) {
		byName[r.Name] = r.EntityType
	}
	assert.Equal(t, TypeGovernmentAgency, byName["Ministry of Finance"])
	assert.Equal(t, TypeResearchOrg, byName["Stanford University"])
	assert.Equal(t, TypeCompanyAcronym, byName["XYZQ"])
	assert.Equal(t, TypeCompany, byName["Acme Holdings"])
}

func TestExtractInvariants(t *testing.T) {
	e := newTestEngine()
	corpus := articles(
		"The Market rallies as Tesla and BYD gain",
		"The Market slips; Reliance Industries and Adani Group lead",
		"NTPC commissions solar park in Gujarat",
		"RBI keeps rates unchanged, HDFC Bank and ICICI Bank react",
		"Zorbix Labs raises funding",
		"Tesla opens Mumbai showroom",
	)
	got := e.Extract(corpus, Options{MinMentions: 0, ContextKeywords: []string{"solar", "bank"}})
	require.NotEmpty(t, got)

	for i, r := range got {
		assert.Equal(t, i+1, r.Rank)
		assert.GreaterOrEqual(t, r.Mentions, 1)
		assert.GreaterOrEqual(t, r.Percentage, 0.0)
		assert.LessOrEqual(t, r.Percentage, 100.0)
		assert.NotEqual(t, "The Market", r.Name)
		assert.False(t, strings.EqualFold(r.Name, "the market"))
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, r.Score)
		}
	}
}

func TestExtractTrademarkedBrand(t *testing.T) {
	got := newTestEngine().Extract(articles(
		"Tesla™ cuts prices",
		"Tesla™ opens showroom",
	), Options{MinMentions: 1})

	require.Len(t, got, 1)
	assert.Equal(t, "Tesla", got[0].Name)
	assert.InDelta(t, 10, got[0].Score, 1e-9)
	assert.Equal(t, 95.0, got[0].Confidence)
}

func TestExtractCollapsesWhitespaceInNames(t *testing.T) {
	got := newTestEngine().Extract(articles(
		"Tata  Motors rallies",
		"Tata Motors\nslips",
	), Options{MinMentions: 1})

	require.Len(t, got, 1)
	assert.Equal(t, "Tata Motors", got[0].Name)
	assert.InDelta(t, 10, got[0].Score, 1e-9)
	assert.Equal(t, 95.0, got[0].Confidence)
	assert.Equal(t, 2, got[0].ContextDiversity)
}

func TestScoreNormalizesWhitespace(t *testing.T) {
	score, ok := newTestEngine().Score("Tata \t Motors", "Tata Motors", nil)
	require.True(t, ok)
	assert.InDelta(t, 5, score, 1e-9)
}

func TestAccumulatorIgnoresNonPositive(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("Tesla", 5, "a")
	acc.Add("Tesla", -3, "b")
	acc.Add("Tesla", 0, "c")
	acc.Add("", 5, "d")

	got, ok := acc.Get("Tesla")
	require.True(t, ok)
	assert.InDelta(t, 5, got.Score, 1e-9)
	assert.Equal(t, []string{"a"}, got.Contexts)
	assert.Equal(t, 1, acc.Len())
}
