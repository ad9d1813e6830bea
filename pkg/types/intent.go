package types

// IntentKind is the classified purpose of a query
type IntentKind string

const (
	IntentDefinition IntentKind = "DEFINITION"
	IntentSemantic   IntentKind = "SEMANTIC"
	IntentHybrid     IntentKind = "HYBRID"
)

// EntityCandidate is an entity name extracted from query text, with the
// confidence of the rule that produced it
type EntityCandidate struct {
	Name       string
	Confidence float64
}

// Intent is the classification of a single query. Produced once per query
// and never mutated afterwards.
type Intent struct {
	Kind       IntentKind
	Confidence float64

	// Candidates are entity names found in the query, ordered by the
	// specificity of the matching rule (most specific first)
	Candidates []EntityCandidate
}

// TopCandidate returns the highest-ranked entity candidate, if any
func (i *Intent) TopCandidate() (EntityCandidate, bool) {
	if len(i.Candidates) == 0 {
		return EntityCandidate{}, false
	}
	return i.Candidates[0], true
}

// CandidateNames returns candidate names in rank order
func (i *Intent) CandidateNames() []string {
	names := make([]string, len(i.Candidates))
	for n, c := range i.Candidates {
		names[n] = c.Name
	}
	return names
}
