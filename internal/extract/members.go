package extract

import (
	"regexp"
	"strings"

	"github.com/unrealkit/uecontext/pkg/types"
)

var (
	// methodPattern matches a method declaration at class-body depth:
	// optional qualifiers, optional return type, name, argument list
	methodPattern = regexp.MustCompile(`^\s*(?:(?:virtual|static|inline|explicit|constexpr|friend|mutable|FORCEINLINE)\s+)*([A-Za-z_][\w:<>,&*\s]*?[&*\s])?~?([A-Za-z_]\w*)\s*\(`)

	// fieldPattern matches a data member declaration: qualifiers, a type
	// with optional template arguments and ref/pointer decoration, a name,
	// optional array extent and initializer, terminator
	fieldPattern = regexp.MustCompile(`^\s*(?:(?:mutable|static|constexpr|inline)\s+)*((?:const\s+)?[A-Za-z_][\w:]*(?:\s*<[^;{}]*>)?(?:\s*(?:const|[&*]))*)\s+([A-Za-z_]\w*)(?:\s*\[[^\]]*\])?\s*(?:=[^;]*|\{[^;}]*\})?\s*;`)

	// enumValuePattern matches one enumerator, with optional value and
	// trailing metadata macro
	enumValuePattern = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*(?:=\s*[^,/]+?)?\s*(?:UMETA\s*\([^)]*\)\s*)?,?\s*$`)
)

// extractMembers walks a captured definition body and pulls member
// declarations at nesting depth one. Parsing is best-effort: a line that
// fits no pattern is ignored, never an error. Reflection macros found in
// the body are returned alongside the members.
func extractMembers(clean []string, kind types.EntityKind) ([]types.Member, []string) {
	var members []types.Member
	var macros []string

	depth := 0
	for _, line := range clean {
		atMemberDepth := depth == 1
		depth += delta(line)

		if !atMemberDepth {
			continue
		}

		if m := annotationPattern.FindStringSubmatch(line); m != nil {
			macros = append(macros, m[1])
			continue
		}
		if accessPattern.MatchString(line) {
			continue
		}

		if kind == types.EntityEnum {
			if m := enumValuePattern.FindStringSubmatch(line); m != nil {
				members = append(members, types.Member{Name: m[1]})
			}
			continue
		}

		// Methods before fields: an inline body would satisfy both
		if m := methodPattern.FindStringSubmatch(line); m != nil {
			members = append(members, types.Member{
				Name: m[2],
				Type: strings.TrimSpace(m[1]),
			})
			continue
		}
		if m := fieldPattern.FindStringSubmatch(line); m != nil {
			members = append(members, types.Member{
				Name: m[2],
				Type: strings.TrimSpace(m[1]),
			})
		}
	}

	return members, macros
}

// delta returns the net brace depth change contributed by a sanitized line
func delta(line string) int {
	d := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			d++
		case '}':
			d--
		}
	}
	return d
}

// mergeMacros unions two macro lists preserving first-seen order
func mergeMacros(above, body []string) []string {
	if len(above) == 0 && len(body) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(above)+len(body))
	out := make([]string, 0, len(above)+len(body))
	for _, m := range append(above, body...) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
