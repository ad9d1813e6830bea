package extract

import "strings"

// scanState is the phase of the brace scanner for one candidate definition
type scanState int

const (
	// stateSearching means no body-opening delimiter has been seen yet
	stateSearching scanState = iota
	// stateInBody means depth has gone positive and not yet returned to zero
	stateInBody
	// stateComplete means depth returned to zero after having gone positive
	stateComplete
)

// scanEvent is a terminal outcome reported while feeding lines
type scanEvent int

const (
	// eventNone means the scan is still in progress
	eventNone scanEvent = iota
	// eventForward means a statement terminator arrived before any
	// body-opening delimiter: a forward declaration or prototype
	eventForward
	// eventComplete means the definition body closed at balanced depth
	eventComplete
	// eventUnbalanced means a close delimiter had no matching open
	eventUnbalanced
)

// braceScanner tracks structural delimiter depth across source lines that
// have already been stripped of comments and literals. One scanner serves
// one candidate definition, from its anchor line forward.
type braceScanner struct {
	state scanState
	depth int
}

// feed consumes one sanitized line and reports the first terminal event it
// produces, or eventNone while the scan remains open
func (s *braceScanner) feed(line string) scanEvent {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			s.depth++
			s.state = stateInBody
		case '}':
			s.depth--
			if s.depth < 0 {
				return eventUnbalanced
			}
			if s.depth == 0 && s.state == stateInBody {
				s.state = stateComplete
				return eventComplete
			}
		case ';':
			if s.state == stateSearching {
				return eventForward
			}
		}
	}
	return eventNone
}

// sanitizer removes comments and string/char literal contents from source
// lines so that literal delimiters cannot corrupt depth tracking. Block
// comment state carries across lines; string and char literals do not.
type sanitizer struct {
	inComment bool
}

// clean returns line with comment text and literal contents dropped
func (s *sanitizer) clean(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	for i := 0; i < len(line); i++ {
		if s.inComment {
			if line[i] == '*' && i+1 < len(line) && line[i+1] == '/' {
				s.inComment = false
				i++
			}
			continue
		}

		ch := line[i]
		switch ch {
		case '/':
			if i+1 < len(line) {
				if line[i+1] == '/' {
					return b.String()
				}
				if line[i+1] == '*' {
					s.inComment = true
					i++
					continue
				}
			}
			b.WriteByte(ch)
		case '"', '\'':
			// Skip to the closing quote, honoring escapes. An
			// unterminated literal consumes the rest of the line.
			for i++; i < len(line); i++ {
				if line[i] == '\\' {
					i++
				} else if line[i] == ch {
					break
				}
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// sanitizeLines cleans every line of a file in one pass, preserving
// cross-line comment state
func sanitizeLines(raw []string) []string {
	var s sanitizer
	clean := make([]string, len(raw))
	for i, line := range raw {
		clean[i] = s.clean(line)
	}
	return clean
}
