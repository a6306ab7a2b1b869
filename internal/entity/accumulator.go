package entity

// Accumulator sums per-occurrence scores by surface form and remembers the
// order in which forms were first seen. It is not safe for concurrent use;
// each ranking request owns its own.
type Accumulator struct {
	order   []string
	entries map[string]*ScoredEntity
}

func NewAccumulator() *Accumulator {
	return &Accumulator{entries: map[string]*ScoredEntity{}}
}

// Add records one occurrence. Non-positive scores are ignored so totals
// never decrease.
func (a *Accumulator) Add(name string, score float64, context string) {
	if name == "" || score <= 0 {
		return
	}
	e, ok := a.entries[name]
	if !ok {
		e = &ScoredEntity{Name: name}
		a.entries[name] = e
		a.order = append(a.order, name)
	}
	e.Score += score
	e.Contexts = append(e.Contexts, context)
}

func (a *Accumulator) Len() int {
	return len(a.order)
}

// Get returns a copy of the entry for name.
func (a *Accumulator) Get(name string) (ScoredEntity, bool) {
	e, ok := a.entries[name]
	if !ok {
		return ScoredEntity{}, false
	}
	return copyEntity(e), true
}

// Entities returns copies of all entries in first-seen order.
func (a *Accumulator) Entities() []ScoredEntity {
	out := make([]ScoredEntity, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, copyEntity(a.entries[name]))
	}
	return out
}

func copyEntity(e *ScoredEntity) ScoredEntity {
	return ScoredEntity{
		Name:     e.Name,
		Score:    e.Score,
		Contexts: append([]string(nil), e.Contexts...),
	}
}
