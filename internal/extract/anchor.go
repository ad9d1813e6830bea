package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/unrealkit/uecontext/pkg/types"
)

var (
	// annotationPattern matches reflection macro lines: the annotations
	// that precede an entity (USTRUCT, UCLASS, ...) and the ones inside
	// its body (UPROPERTY, GENERATED_BODY, ...)
	annotationPattern = regexp.MustCompile(`^\s*(USTRUCT|UCLASS|UENUM|UINTERFACE|UFUNCTION|UDELEGATE|UPROPERTY|UPARAM|UMETA|GENERATED_\w+)\s*(?:\(|$)`)

	// templatePattern matches a template parameter list on its own line
	templatePattern = regexp.MustCompile(`^\s*template\s*<`)

	// accessPattern matches access specifier lines inside a class body
	accessPattern = regexp.MustCompile(`^\s*(?:public|protected|private)\s*:`)
)

// controlKeywords begin statements that can look like function anchors but
// never are
var controlKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "switch": true,
	"return": true, "case": true, "do": true, "goto": true, "new": true,
	"delete": true, "throw": true, "sizeof": true,
}

// anchorSet holds the compiled patterns that locate definitions of one
// entity name. Patterns run against sanitized lines, so comments and
// string literals can never produce an anchor.
type anchorSet struct {
	name     string
	typeDef  *regexp.Regexp
	funcDef  *regexp.Regexp
	delegate *regexp.Regexp
}

// funcAnchor describes how a function anchor matched, which decides whether
// a body-less outcome is a prototype or a plain call
type funcAnchor struct {
	hasReturn bool // A return type precedes the name
	qualified bool // The name carries a Class:: qualifier
}

// newAnchorSet compiles the patterns for entityName. Template parameter
// lists in the name are ignored: a query for TArray<FHitResult> anchors on
// TArray.
func newAnchorSet(entityName string) anchorSet {
	name := regexp.QuoteMeta(baseName(entityName))

	// struct/class/enum keyword, optional export macro, whole-word name.
	// An inline template<> prefix keeps single-line templates anchored.
	typeDef := regexp.MustCompile(fmt.Sprintf(
		`^\s*(?:template\s*<[^>]*>\s*)?(struct|class|enum)\s+(?:(?:class|struct)\s+)?(?:[A-Z][A-Za-z0-9_]*_API\s+)?%s\b`, name))

	// Optional qualifiers and return type, optional Class:: qualifier,
	// then the name directly before an argument list. Destructors match
	// their class name.
	funcDef := regexp.MustCompile(fmt.Sprintf(
		`^\s*(?:template\s*<[^>]*>\s*)?(?:(?:virtual|static|inline|explicit|constexpr|friend|extern|FORCEINLINE|FORCENOINLINE|[A-Z][A-Za-z0-9_]*_API)\s+)*([A-Za-z_][\w:<>,&*\s]*?[&*\s])?((?:[A-Za-z_]\w*::)+)?~?%s\s*\(`, name))

	// Delegate declaration macros bind the name as their first argument
	delegate := regexp.MustCompile(fmt.Sprintf(
		`^\s*(DECLARE_(?:DYNAMIC_|MULTICAST_|SPARSE_|TS_)*DELEGATE\w*)\s*\(\s*%s\b`, name))

	return anchorSet{
		name:     baseName(entityName),
		typeDef:  typeDef,
		funcDef:  funcDef,
		delegate: delegate,
	}
}

// matchType reports whether line anchors a struct/class/enum definition of
// the target name, and which kind
func (a anchorSet) matchType(line string) (types.EntityKind, bool) {
	m := a.typeDef.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	switch m[1] {
	case "struct":
		return types.EntityStruct, true
	case "class":
		return types.EntityClass, true
	case "enum":
		return types.EntityEnum, true
	}
	return "", false
}

// matchFunc reports whether line anchors a function definition or prototype
// of the target name
func (a anchorSet) matchFunc(line string) (funcAnchor, bool) {
	m := a.funcDef.FindStringSubmatch(line)
	if m == nil {
		return funcAnchor{}, false
	}
	if controlKeywords[firstToken(line)] {
		return funcAnchor{}, false
	}
	return funcAnchor{
		hasReturn: strings.TrimSpace(m[1]) != "",
		qualified: m[2] != "",
	}, true
}

// matchDelegate reports whether line anchors a delegate declaration macro
// binding the target name, returning the macro name
func (a anchorSet) matchDelegate(line string) (string, bool) {
	m := a.delegate.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// lookBack extends an anchor upward over an immediately preceding template
// line and any annotation macro lines. Returns the adjusted start index and
// the macro names found, outermost first.
func lookBack(clean []string, anchor int) (int, []string) {
	start := anchor
	j := anchor - 1

	if j >= 0 && templatePattern.MatchString(clean[j]) {
		start = j
		j--
	}

	var macros []string
	for j >= 0 {
		m := annotationPattern.FindStringSubmatch(clean[j])
		if m == nil {
			break
		}
		macros = append(macros, m[1])
		start = j
		j--
	}

	// Collected bottom-up; report top-down
	for i, k := 0, len(macros)-1; i < k; i, k = i+1, k-1 {
		macros[i], macros[k] = macros[k], macros[i]
	}
	return start, macros
}

// baseName strips a trailing template parameter list from an entity name
func baseName(name string) string {
	if i := strings.IndexByte(name, '<'); i > 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}

// firstToken returns the first identifier-like token of a line
func firstToken(line string) string {
	line = strings.TrimSpace(line)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if !(ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
			return line[:i]
		}
	}
	return line
}
