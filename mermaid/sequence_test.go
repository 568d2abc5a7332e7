package mermaid

import "testing"

func TestSequenceActivationRepair(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"balanced pair kept",
			"sequenceDiagram\n    Client->>+Server: req\n    Server-->>-Client: res",
			"sequenceDiagram\n    Client->>+Server: req\n    Server-->>-Client: res",
		},
		{
			"orphan deactivation stripped",
			"sequenceDiagram\n    Server-->>-Client: msg",
			"sequenceDiagram\n    Server-->>Client: msg",
		},
		{
			"unpaired activation stripped",
			"sequenceDiagram\n    Client->>+Server: req",
			"sequenceDiagram\n    Client->>Server: req",
		},
		{
			"double deactivation",
			"sequenceDiagram\n    A->>+B: one\n    B-->>-A: two\n    B-->>-A: three",
			"sequenceDiagram\n    A->>+B: one\n    B-->>-A: two\n    B-->>A: three",
		},
		{
			"stacked activations",
			"sequenceDiagram\n    A->>+B: one\n    A->>+B: two\n    B-->>-A: three\n    B-->>-A: four",
			"sequenceDiagram\n    A->>+B: one\n    A->>+B: two\n    B-->>-A: three\n    B-->>-A: four",
		},
		{
			"independent participants",
			"sequenceDiagram\n    A->>+B: open b\n    A->>+C: open c\n    C-->>-A: close c",
			"sequenceDiagram\n    A->>B: open b\n    A->>+C: open c\n    C-->>-A: close c",
		},
		{
			"arrow variants",
			"sequenceDiagram\n    A-x+B: lost\n    A--)+C: async",
			"sequenceDiagram\n    A-xB: lost\n    A--)C: async",
		},
	}
	for _, tc := range cases {
		got, err := sequenceConverter{}.Convert(tc.in, Options{})
		if err != nil {
			t.Fatalf("%s: Convert: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s:\n got %q\nwant %q", tc.name, got, tc.want)
		}
	}
}

func TestSequenceSeparatorEscaping(t *testing.T) {
	src := "sequenceDiagram\n    A->>B: Line1; Line2; Line3"
	want := "sequenceDiagram\n    A->>B: Line1#59; Line2#59; Line3"
	got, err := sequenceConverter{}.Convert(src, Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	// Entities produced by the first pass survive a second one.
	again, err := sequenceConverter{}.Convert(got, Options{})
	if err != nil {
		t.Fatalf("second Convert: %v", err)
	}
	if again != got {
		t.Fatalf("second pass changed output:\n%q\n%q", got, again)
	}
}

func TestSequenceKeywordLinesUntouched(t *testing.T) {
	src := "sequenceDiagram\n    participant A\n    Note over A,B: keep; this\n    alt happy; path\n    end"
	got, err := sequenceConverter{}.Convert(src, Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != src {
		t.Fatalf("structural lines modified:\n got %q\nwant %q", got, src)
	}
}

func TestSequenceDisableRepair(t *testing.T) {
	src := "sequenceDiagram\n    Server-->>-Client: one; two"
	want := "sequenceDiagram\n    Server-->>-Client: one#59; two"
	got, err := sequenceConverter{}.Convert(src, Options{DisableSequenceRepair: true})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSequenceSpacingPreserved(t *testing.T) {
	src := "sequenceDiagram\n\tA ->>+  B :  spaced out"
	want := "sequenceDiagram\n\tA ->>  B :  spaced out"
	got, err := sequenceConverter{}.Convert(src, Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseSequenceLine(t *testing.T) {
	ln := parseSequenceLine("    Client-->>+Server: hello")
	if ln.msg == nil {
		t.Fatal("message line not recognized")
	}
	m := ln.msg
	if m.sender != "Client" || m.receiver != "Server" || m.arrow != "-->>" || m.marker != "+" || m.body != "hello" {
		t.Fatalf("parsed fields = %+v", m)
	}
	if got := m.render(); got != "    Client-->>+Server: hello" {
		t.Fatalf("render round-trip = %q", got)
	}

	for _, raw := range []string{"participant A", "Note right of A: hi", "loop retry", "", "    autonumber"} {
		if parseSequenceLine(raw).msg != nil {
			t.Errorf("structural line parsed as message: %q", raw)
		}
	}
}
