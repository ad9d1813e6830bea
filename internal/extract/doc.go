// Package extract locates structural definitions in C++ source by text
// scanning, without a compiler front end.
//
// # Anchors
//
// For one entity name the package compiles three anchor families: type
// definitions (struct/class/enum keyword, optional export macro, the name
// as a whole word), function definitions (optional qualifiers and return
// type, optional Class:: qualifier, the name directly before an argument
// list), and delegate declaration macros binding the name as their first
// argument. Anchors run against sanitized lines, with comments and string
// or char literals stripped first, so prose mentions of an entity can
// never anchor a match. Template parameter lists are ignored on both
// sides: a query for TArray<FHitResult> anchors on TArray.
//
// # Brace scanner
//
// From an anchor line forward, an explicit state machine tracks delimiter
// depth: SEARCHING until the first open brace, IN_BODY while depth is
// positive, COMPLETE when depth returns to zero. A statement terminator
// reached while still SEARCHING marks a forward declaration or prototype.
// A close delimiter with no matching open, or end of file with the body
// still open, skips that candidate and records a warning; extraction
// continues on other files.
//
// # Results
//
// Matches carry the raw body text, reflection macro tags (the annotations
// above the anchor plus those found in the body), and a best-effort member
// list parsed at nesting depth one. Full definitions in engine source rank
// above full definitions in project source; forward declarations are
// returned only when no full definition exists anywhere.
//
// Files are scanned in parallel under a bounded worker count, and files
// over the configured size limit are skipped with a warning rather than
// scanned.
package extract
