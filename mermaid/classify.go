package mermaid

import "strings"

// DiagramType identifies which grammar dialect a diagram source follows.
type DiagramType string

const (
	TypeFlow     DiagramType = "flow"
	TypeSequence DiagramType = "sequence"
	TypeOther    DiagramType = "other"
)

// Classify determines the dialect from the first non-blank line of src.
// The keyword match is case-insensitive and ignores surrounding whitespace.
// Sources without a recognized header return TypeOther, which the dispatcher
// treats as TypeFlow: legacy documents frequently omit explicit headers.
func Classify(src string) DiagramType {
	for _, line := range strings.Split(src, "\n") {
		head := strings.ToLower(strings.TrimSpace(line))
		if head == "" {
			continue
		}
		switch {
		case hasKeyword(head, "sequencediagram"):
			return TypeSequence
		case hasKeyword(head, "flowchart"), hasKeyword(head, "graph"):
			return TypeFlow
		}
		return TypeOther
	}
	return TypeOther
}

// hasKeyword reports whether head starts with kw as a whole token, followed
// by whitespace or end of line. Identifiers that merely share the prefix
// (graphQL, flowchartX) are not headers.
func hasKeyword(head, kw string) bool {
	if !strings.HasPrefix(head, kw) {
		return false
	}
	return len(head) == len(kw) || head[len(kw)] == ' ' || head[len(kw)] == '\t'
}

// isHeaderLine reports whether line is a diagram header. Header lines pass
// through every stage untouched.
func isHeaderLine(line string) bool {
	head := strings.ToLower(strings.TrimSpace(line))
	return hasKeyword(head, "flowchart") ||
		hasKeyword(head, "graph") ||
		hasKeyword(head, "sequencediagram")
}
