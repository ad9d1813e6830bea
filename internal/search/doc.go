// Package search implements filtered similarity search over a loaded index
// snapshot.
//
// Every chunk whose metadata passes the active filters (origin scope, entity
// type, required macro, header-vs-implementation) is scored by cosine
// similarity against the query embedding; stored vectors are normalized, so
// this is the plain dot product. Multiplicative boosts reward macro-annotated
// chunks and chunks whose entity name matches a high-confidence query
// candidate. Ranking is by adjusted score, with pre-boost similarity and
// file path as tie-breakers, truncated to topK.
package search
