package mermaid

import "testing"

func TestResolveEscapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bracket pair", `A\[literal\] --> B`, `A"[literal]" --> B`},
		{"brace pair", `A\{opts\} --> B`, `A"{opts}" --> B`},
		{"stray open", `weird \[ text`, `weird [ text`},
		{"stray close", `weird \] text`, `weird ] text`},
		{"multiple pairs", `A\[x\] B\[y\]`, `A"[x]" B"[y]"`},
		{"no escapes", "A[Box] --> B", "A[Box] --> B"},
		{"keyword-prefixed id", `graphStore\[lit\] --> B`, `graphStore"[lit]" --> B`},
	}
	for _, tc := range cases {
		if got := ResolveEscapes(tc.in); got != tc.want {
			t.Errorf("%s: ResolveEscapes(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestResolveEscapesSkipsHeaders(t *testing.T) {
	src := "flowchart TD\nA\\[lit\\] --> B"
	want := "flowchart TD\nA\"[lit]\" --> B"
	if got := ResolveEscapes(src); got != want {
		t.Fatalf("ResolveEscapes = %q, want %q", got, want)
	}
}

func TestResolveEscapesUnconditionallySafe(t *testing.T) {
	// The fast path is a shortcut, not a correctness requirement: applying
	// the pass twice must match applying it once.
	src := `flowchart TD
A\[x\] --> B\{y\}
C \] D`
	once := ResolveEscapes(src)
	if got := ResolveEscapes(once); got != once {
		t.Fatalf("second pass changed output:\n%q\n%q", once, got)
	}
}
