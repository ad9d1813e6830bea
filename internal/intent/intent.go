package intent

import (
	"regexp"
	"strings"

	"github.com/unrealkit/uecontext/pkg/types"
)

// Fixed confidence constants, one per classification rule. These are policy
// values, not learned weights; tests pin them.
const (
	// KeywordConfidence applies when an explicit structural keyword
	// precedes an identifier ("struct FHitResult")
	KeywordConfidence = 0.95

	// IdentifierConfidence applies when a bare identifier matches the
	// engine naming convention with no natural-language words around it
	IdentifierConfidence = 0.80

	// PhraseConfidence applies when interrogative phrasing forces a
	// semantic classification ("how does collision detection work")
	PhraseConfidence = 0.90

	// HybridConfidence applies when an identifier and descriptive words
	// appear together
	HybridConfidence = 0.75

	// FallbackConfidence is the default semantic classification
	FallbackConfidence = 0.40

	// HighConfidenceThreshold marks classifications trusted for strict
	// handling; keyword-rule classifications always clear it
	HighConfidenceThreshold = 0.90

	// BoostableConfidence is the minimum candidate confidence eligible
	// for entity-name boosting during semantic search
	BoostableConfidence = 0.80
)

// structuralKeywords are tokens that force a definition lookup when followed
// by an identifier. Reflection macro names are included because users paste
// them verbatim from engine headers.
var structuralKeywords = map[string]bool{
	"struct":     true,
	"class":      true,
	"enum":       true,
	"function":   true,
	"func":       true,
	"delegate":   true,
	"interface":  true,
	"ustruct":    true,
	"uclass":     true,
	"uenum":      true,
	"ufunction":  true,
	"uinterface": true,
}

// semanticPhrases force a semantic classification when present anywhere in
// the query
var semanticPhrases = []string{
	"how does",
	"how do",
	"how is",
	"how are",
	"why",
	"explain",
	"what is",
	"what does",
	"what are",
	"describe",
	"when does",
	"where is",
}

var (
	// conventionPattern matches the engine naming convention: a single
	// uppercase prefix letter (F structs, U objects, A actors, E enums,
	// I interfaces, S widgets, T templates) followed by CamelCase
	conventionPattern = regexp.MustCompile(`^[AEFISTU][A-Z][A-Za-z0-9_]*$`)

	// identifierPattern matches any C-style identifier
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Analyzer classifies raw query text into an intent. It is a pure function
// of its input and a fixed rule set: no I/O, no state, never an error.
type Analyzer struct{}

// New creates a new Analyzer instance
func New() *Analyzer {
	return &Analyzer{}
}

// Classify applies the rule families in priority order and returns the
// first match. An unrecognized query always lands on the semantic fallback.
func (a *Analyzer) Classify(text string) types.Intent {
	tokens := tokenize(text)
	lower := strings.ToLower(strings.Join(tokens, " "))

	// Rule 1: structural keyword followed by an identifier
	if intent, ok := a.classifyKeyword(tokens); ok {
		return intent
	}

	candidates := conventionCandidates(tokens)

	// Rule 2: bare convention identifiers, no natural-language words
	if len(candidates) > 0 && allConvention(tokens) {
		return types.Intent{
			Kind:       types.IntentDefinition,
			Confidence: IdentifierConfidence,
			Candidates: candidates,
		}
	}

	// Rule 3: interrogative or explanatory phrasing
	for _, phrase := range semanticPhrases {
		if containsPhrase(lower, phrase) {
			return types.Intent{
				Kind:       types.IntentSemantic,
				Confidence: PhraseConfidence,
				Candidates: candidates,
			}
		}
	}

	// Rule 4: identifier plus descriptive words
	if len(candidates) > 0 {
		return types.Intent{
			Kind:       types.IntentHybrid,
			Confidence: HybridConfidence,
			Candidates: candidates,
		}
	}

	// Rule 5: fallback
	return types.Intent{
		Kind:       types.IntentSemantic,
		Confidence: FallbackConfidence,
	}
}

// classifyKeyword implements rule 1. The identifier after the keyword
// becomes the top candidate; convention identifiers elsewhere in the query
// are kept as lower-ranked candidates.
func (a *Analyzer) classifyKeyword(tokens []string) (types.Intent, bool) {
	for i := 0; i < len(tokens)-1; i++ {
		if !structuralKeywords[strings.ToLower(tokens[i])] {
			continue
		}

		name := baseName(tokens[i+1])
		if !identifierPattern.MatchString(name) {
			continue
		}

		candidates := []types.EntityCandidate{{Name: name, Confidence: KeywordConfidence}}
		for _, c := range conventionCandidates(tokens) {
			if c.Name != name {
				candidates = append(candidates, c)
			}
		}

		return types.Intent{
			Kind:       types.IntentDefinition,
			Confidence: KeywordConfidence,
			Candidates: candidates,
		}, true
	}

	return types.Intent{}, false
}

// allConvention reports whether every token matches the naming convention
func allConvention(tokens []string) bool {
	for _, tok := range tokens {
		if !conventionPattern.MatchString(baseName(tok)) {
			return false
		}
	}
	return len(tokens) > 0
}

// conventionCandidates collects tokens matching the engine naming
// convention, in query order
func conventionCandidates(tokens []string) []types.EntityCandidate {
	var candidates []types.EntityCandidate
	seen := make(map[string]bool)

	for _, tok := range tokens {
		name := baseName(tok)
		if !conventionPattern.MatchString(name) || seen[name] {
			continue
		}
		seen[name] = true
		candidates = append(candidates, types.EntityCandidate{
			Name:       name,
			Confidence: IdentifierConfidence,
		})
	}

	return candidates
}

// tokenize splits query text into cleaned tokens, dropping surrounding
// quotes and punctuation
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))

	for _, f := range fields {
		f = strings.Trim(f, `"'?,.!;:()`)
		if f != "" {
			tokens = append(tokens, f)
		}
	}

	return tokens
}

// baseName strips a trailing template parameter list, so TArray<FHitResult>
// matches on TArray
func baseName(token string) string {
	if i := strings.IndexByte(token, '<'); i > 0 {
		return token[:i]
	}
	return token
}

// containsPhrase reports a whole-word phrase match in lowered text
func containsPhrase(lower, phrase string) bool {
	idx := strings.Index(lower, phrase)
	if idx < 0 {
		return false
	}

	// Reject matches inside a longer word ("why" in "anywhere")
	if idx > 0 && lower[idx-1] != ' ' {
		return false
	}
	end := idx + len(phrase)
	if end < len(lower) && lower[end] != ' ' {
		return false
	}

	return true
}
