package mermaid

import (
	"regexp"
	"strings"
)

// sequenceKeywords are the structural statement heads of the sequence
// dialect. Lines starting with one are never treated as messages.
var sequenceKeywords = map[string]struct{}{
	"sequencediagram": {},
	"participant":     {},
	"actor":           {},
	"note":            {},
	"alt":             {},
	"else":            {},
	"opt":             {},
	"loop":            {},
	"par":             {},
	"and":             {},
	"critical":        {},
	"option":          {},
	"break":           {},
	"rect":            {},
	"end":             {},
	"activate":        {},
	"deactivate":      {},
	"autonumber":      {},
	"box":             {},
	"title":           {},
	"create":          {},
	"destroy":         {},
	"link":            {},
	"links":           {},
}

// messagePattern captures a message line piecewise so repaired lines can be
// re-rendered with their original spacing:
// indent, sender, ws, arrow, activation marker, ws, receiver, ws, ws, body.
var messagePattern = regexp.MustCompile(`^(\s*)(\w+)(\s*)(-+(?:>>|>|[xX)]))([+-]?)(\s*)(\w+)(\s*):(\s*)(.*)$`)

// separatorPattern matches either an already-escaped entity or a bare
// structural separator; only the latter is rewritten.
var separatorPattern = regexp.MustCompile(`#\w+;|;`)

type seqMessage struct {
	indent   string
	sender   string
	ws1      string
	arrow    string
	marker   string
	ws2      string
	receiver string
	ws3      string
	ws4      string
	body     string
}

func (m *seqMessage) render() string {
	return m.indent + m.sender + m.ws1 + m.arrow + m.marker + m.ws2 + m.receiver + m.ws3 + ":" + m.ws4 + m.body
}

// seqLine is a parsed source line; msg is nil for structural lines.
type seqLine struct {
	raw string
	msg *seqMessage
}

func parseSequenceLine(raw string) seqLine {
	if isSequenceKeyword(raw) {
		return seqLine{raw: raw}
	}
	groups := messagePattern.FindStringSubmatch(raw)
	if groups == nil {
		return seqLine{raw: raw}
	}
	return seqLine{raw: raw, msg: &seqMessage{
		indent:   groups[1],
		sender:   groups[2],
		ws1:      groups[3],
		arrow:    groups[4],
		marker:   groups[5],
		ws2:      groups[6],
		receiver: groups[7],
		ws3:      groups[8],
		ws4:      groups[9],
		body:     groups[10],
	}}
}

func isSequenceKeyword(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	head := strings.ToLower(strings.TrimSuffix(fields[0], ":"))
	_, ok := sequenceKeywords[head]
	return ok
}

// escapeSeparators rewrites structural separator characters inside a message
// body to their literal entity. Entities already present are kept as-is so
// repeated passes stay stable.
func escapeSeparators(body string) string {
	if !strings.Contains(body, ";") {
		return body
	}
	return separatorPattern.ReplaceAllStringFunc(body, func(m string) string {
		if m == ";" {
			return "#59;"
		}
		return m
	})
}

// sequenceConverter escapes separators inside message bodies and repairs
// unmatched activation markers.
type sequenceConverter struct{}

func (sequenceConverter) Dialect() DiagramType { return TypeSequence }

// Convert runs two passes. The first walks lines left to right, escaping
// message bodies and maintaining one pending-activation stack per
// participant: an open marker pushes the line onto the receiver's stack, a
// close marker pops the sender's stack or, when that stack is empty, is
// stripped as an orphan. The second pass strips the open marker from any
// activation still on a stack. A marker is only ever stripped after its
// stack is definitively shown unbalanced, never in anticipation.
func (sequenceConverter) Convert(src string, opts Options) (string, error) {
	lines := strings.Split(src, "\n")
	parsed := make([]seqLine, len(lines))
	for i, raw := range lines {
		parsed[i] = parseSequenceLine(raw)
	}

	stacks := make(map[string][]int)
	for i := range parsed {
		m := parsed[i].msg
		if m == nil {
			continue
		}
		m.body = escapeSeparators(m.body)
		if opts.DisableSequenceRepair {
			continue
		}
		switch m.marker {
		case "+":
			stacks[m.receiver] = append(stacks[m.receiver], i)
		case "-":
			// The sender is the entity being deactivated.
			if s := stacks[m.sender]; len(s) > 0 {
				stacks[m.sender] = s[:len(s)-1]
			} else {
				m.marker = ""
			}
		}
	}
	for _, pending := range stacks {
		for _, idx := range pending {
			parsed[idx].msg.marker = ""
		}
	}

	out := make([]string, len(parsed))
	for i, ln := range parsed {
		if ln.msg != nil {
			out[i] = ln.msg.render()
		} else {
			out[i] = ln.raw
		}
	}
	return strings.Join(out, "\n"), nil
}
