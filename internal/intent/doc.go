// Package intent classifies raw query text into a definition, semantic, or
// hybrid intent.
//
// Classification applies a fixed set of pattern families in priority order:
//
//  1. Structural keyword + identifier ("struct FHitResult") forces DEFINITION
//     at high confidence, with the identifier as the top entity candidate.
//  2. Bare identifiers matching the engine naming convention (F/U/A/E/I/S/T
//     prefix + CamelCase) with no natural-language words force DEFINITION.
//  3. Interrogative phrasing ("how does", "why", "explain") forces SEMANTIC.
//  4. An identifier mixed with descriptive words yields HYBRID.
//  5. Everything else falls back to SEMANTIC at low confidence.
//
// Confidence values are fixed constants per rule, not learned weights.
// Classification is pure: no I/O, no state, and it never fails.
//
//	a := intent.New()
//	in := a.Classify("UCharacterMovementComponent physics")
//	// in.Kind == types.IntentHybrid
//	// in.Candidates[0].Name == "UCharacterMovementComponent"
package intent
