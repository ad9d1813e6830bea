package extract

import "testing"

func TestBraceScannerEvents(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []scanEvent
	}{
		{
			name:  "one line definition",
			lines: []string{"struct FVec { float X; };"},
			want:  []scanEvent{eventComplete},
		},
		{
			name:  "forward declaration",
			lines: []string{"struct FVec;"},
			want:  []scanEvent{eventForward},
		},
		{
			name:  "multi line body",
			lines: []string{"struct FVec", "{", "\tfloat X;", "};"},
			want:  []scanEvent{eventNone, eventNone, eventNone, eventComplete},
		},
		{
			name:  "nested bodies close at outer depth",
			lines: []string{"class UComp", "{", "\tstruct FInner", "\t{", "\t\tint A;", "\t};", "};"},
			want:  []scanEvent{eventNone, eventNone, eventNone, eventNone, eventNone, eventNone, eventComplete},
		},
		{
			name:  "stray close delimiter",
			lines: []string{"struct FBroken", "}"},
			want:  []scanEvent{eventNone, eventUnbalanced},
		},
		{
			name:  "signature spans lines before body",
			lines: []string{"void Tick(float DeltaTime,", "\tint32 Iterations)", "{", "\tStep();", "}"},
			want:  []scanEvent{eventNone, eventNone, eventNone, eventNone, eventComplete},
		},
		{
			name:  "terminator inside body is not a forward",
			lines: []string{"struct FVec {", "\tint A;", "};"},
			want:  []scanEvent{eventNone, eventNone, eventComplete},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sc braceScanner
			for i, line := range tt.lines {
				got := sc.feed(line)
				if got != tt.want[i] {
					t.Fatalf("feed(line %d) = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestBraceScannerDepthReturnsToZero(t *testing.T) {
	var sc braceScanner
	lines := []string{"struct FVec", "{", "\tstruct FInner { int A; };", "};"}

	var last scanEvent
	for _, line := range lines {
		last = sc.feed(line)
	}
	if last != eventComplete {
		t.Fatalf("final event = %v, want eventComplete", last)
	}
	if sc.depth != 0 {
		t.Errorf("depth after completion = %d, want 0", sc.depth)
	}
}

func TestSanitizerSingleLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "line comment removed",
			in:   "int a; // opens a { here",
			want: "int a; ",
		},
		{
			name: "inline block comment removed",
			in:   "int a; /* { */ int b;",
			want: "int a;  int b;",
		},
		{
			name: "string literal contents removed",
			in:   `const char* S = "brace { in string";`,
			want: "const char* S = ;",
		},
		{
			name: "escaped quote inside string",
			in:   `const char* S = "say \"{\"";`,
			want: "const char* S = ;",
		},
		{
			name: "char literal removed",
			in:   `char C = '{';`,
			want: "char C = ;",
		},
		{
			name: "comment marker inside string ignored",
			in:   `const char* URL = "http://example";`,
			want: "const char* URL = ;",
		},
		{
			name: "division survives",
			in:   "float Half = X / 2;",
			want: "float Half = X / 2;",
		},
		{
			name: "unterminated string eats the rest",
			in:   `const char* S = "broken {`,
			want: "const char* S = ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sanitizer
			if got := s.clean(tt.in); got != tt.want {
				t.Errorf("clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizerBlockCommentAcrossLines(t *testing.T) {
	lines := []string{
		"/* struct FFake {",
		" * still a comment }",
		" */ int32 Real;",
		"int32 AfterComment;",
	}
	want := []string{"", "", " int32 Real;", "int32 AfterComment;"}

	clean := sanitizeLines(lines)
	for i := range lines {
		if clean[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, clean[i], want[i])
		}
	}
}
