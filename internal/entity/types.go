package entity

// EntityType classifies a ranked name.
type EntityType string

const (
	TypeCompany          EntityType = "company"
	TypeCompanyAcronym   EntityType = "company_acronym"
	TypeGovernmentAgency EntityType = "government_agency"
	TypeResearchOrg      EntityType = "research_org"
)

// ScoredEntity is the running total for one surface form.
type ScoredEntity struct {
	Name     string
	Score    float64
	Contexts []string
}

// RankedResult is one row of the final ranking. Rank equals the 1-based
// position in the sorted list.
type RankedResult struct {
	Rank             int        `json:"rank"`
	Name             string     `json:"name"`
	Mentions         int        `json:"mentions"`
	Score            float64    `json:"score"`
	Percentage       float64    `json:"percentage"`
	Confidence       float64    `json:"confidence"`
	EntityType       EntityType `json:"entity_type"`
	ContextDiversity int        `json:"context_diversity"`
}

// Options is the per-call engine configuration.
type Options struct {
	// ContextKeywords reinforce candidates from articles that mention the
	// queried sector. Empty disables reinforcement.
	ContextKeywords []string
	// MinMentions is the minimum merged score an entity must reach.
	MinMentions float64
	// Limit caps the result count; <= 0 means DefaultLimit.
	Limit int
}

const DefaultLimit = 15
