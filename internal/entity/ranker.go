package entity

import (
	"math"
	"sort"
	"strings"
)

const (
	brandConfidence   = 95.0
	defaultConfidence = 80.0
)

type bucket struct {
	name     string
	score    float64
	contexts []string
}

// Rank merges near-duplicate names, drops those below minMentions, and
// returns at most limit results ordered by score. acc is not modified.
func (e *Engine) Rank(acc *Accumulator, minMentions float64, limit int) []RankedResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	merged := mergeBuckets(acc.Entities())

	kept := make([]*bucket, 0, len(merged))
	total := 0.0
	for _, b := range merged {
		if b.score < minMentions {
			continue
		}
		kept = append(kept, b)
		total += b.score
	}
	if total < 1 {
		total = 1
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]RankedResult, 0, len(kept))
	for i, b := range kept {
		out = append(out, RankedResult{
			Rank:             i + 1,
			Name:             b.name,
			Mentions:         max(1, int(math.Floor(b.score/3))),
			Score:            b.score,
			Percentage:       percentage(b.score, total),
			Confidence:       e.confidence(b.name),
			EntityType:       e.classify(b.name),
			ContextDiversity: distinct(b.contexts),
		})
	}
	return out
}

// mergeBuckets folds each entity into the first earlier bucket whose name
// contains it or is contained by it. The result depends on input order.
func mergeBuckets(entities []ScoredEntity) []*bucket {
	merged := make([]*bucket, 0, len(entities))
	for _, ent := range entities {
		var target *bucket
		for _, b := range merged {
			if strings.Contains(b.name, ent.Name) || strings.Contains(ent.Name, b.name) {
				target = b
				break
			}
		}
		if target == nil {
			merged = append(merged, &bucket{
				name:     ent.Name,
				score:    ent.Score,
				contexts: append([]string(nil), ent.Contexts...),
			})
			continue
		}
		target.score += ent.Score
		target.contexts = append(target.contexts, ent.Contexts...)
	}
	return merged
}

func percentage(score, total float64) float64 {
	p := math.Round(100*score/total*10) / 10
	return math.Min(100, math.Max(0, p))
}

func (e *Engine) confidence(name string) float64 {
	if e.lex.IsBrand(strings.ToLower(name)) {
		return brandConfidence
	}
	return defaultConfidence
}

func (e *Engine) classify(name string) EntityType {
	lower := strings.ToLower(name)
	switch {
	case e.lex.IsGovernment(lower):
		return TypeGovernmentAgency
	case e.lex.IsResearch(lower):
		return TypeResearchOrg
	case isAcronym(name):
		return TypeCompanyAcronym
	default:
		return TypeCompany
	}
}

func distinct(ss []string) int {
	seen := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		seen[s] = struct{}{}
	}
	return len(seen)
}
