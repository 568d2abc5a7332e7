package mermaid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nodeConversion is a pending canonical rewrite recorded while scanning.
// Conversions are resolved back into descriptor tokens only after every shape
// rule has run, so a completed conversion's label text can never be
// re-matched by a later, less specific rule.
type nodeConversion struct {
	id    string
	shape ShapeName
	label string
}

// conversionArena owns the pending conversions for a single line and the
// placeholders standing in for their consumed spans.
type conversionArena struct {
	pending []nodeConversion
}

const placeholderByte = '\x00'

var placeholderPattern = regexp.MustCompile("\x00(\\d+)\x00")

func placeholder(idx int) string {
	return string(placeholderByte) + strconv.Itoa(idx) + string(placeholderByte)
}

// flowConverter rewrites the flow/graph dialect into canonical syntax.
type flowConverter struct{}

func (flowConverter) Dialect() DiagramType { return TypeFlow }

// Convert rewrites every legacy node token and bare edge label in src. When
// any converted label fails bracket validation the whole document is left to
// the caller's fallback and the validation error describes each offender.
func (flowConverter) Convert(src string, opts Options) (string, error) {
	lines := strings.Split(src, "\n")
	verr := &ValidationError{}
	for i, line := range lines {
		converted, details := convertFlowLine(line)
		if len(details) > 0 {
			for _, det := range details {
				det.Line = i + 1
				verr.Issues = append(verr.Issues, det.Message)
				verr.Details = append(verr.Details, det)
			}
			continue
		}
		lines[i] = converted
	}
	if len(verr.Issues) > 0 {
		return src, verr
	}
	return strings.Join(lines, "\n"), nil
}

// convertFlowLine converts one line, or reports why its labels are invalid.
func convertFlowLine(line string) (string, []ValidationDetail) {
	if strings.TrimSpace(line) == "" || isHeaderLine(line) {
		return line, nil
	}
	// Idempotence guard: a line that already carries a descriptor is never
	// touched again. Labels can legitimately contain text that looks like a
	// legacy token, so re-scanning a converted line would invent nodes.
	if strings.Contains(line, descriptorMarker) {
		return line, nil
	}
	// A NUL in the input would collide with the arena's placeholders. The
	// byte carries no meaning in diagram text, so it is dropped before any
	// scanning.
	if strings.ContainsRune(line, placeholderByte) {
		line = strings.ReplaceAll(line, string(placeholderByte), "")
	}
	line = quoteEdgeLabels(line)
	var arena conversionArena
	for _, rule := range shapeRules {
		line = arena.apply(line, rule)
	}
	var details []ValidationDetail
	for i := range arena.pending {
		label := arena.resolvedLabel(i)
		if !LabelBalanced(label) {
			details = append(details, ValidationDetail{
				Label:   label,
				Message: fmt.Sprintf("unbalanced delimiters in label %q", label),
			})
		}
	}
	if len(details) > 0 {
		return line, details
	}
	return arena.resolve(line), nil
}

// edgeLabelPattern matches an arrow (solid, thick or dotted, with optional
// head) followed by a pipe-delimited label. Anchoring on the arrow keeps
// pipes inside node labels from being paired up as edge labels.
var edgeLabelPattern = regexp.MustCompile(`(?:-{2,}[>xo]?|={2,}>?|-\.+-+[>xo]?)\s*\|[^|]+\|`)

// quoteEdgeLabels wraps bare edge labels between pipes in quotes, trimming
// surrounding whitespace. Labels already wrapped in quotes are left alone.
func quoteEdgeLabels(line string) string {
	if !strings.Contains(line, "|") {
		return line
	}
	return edgeLabelPattern.ReplaceAllStringFunc(line, func(m string) string {
		bar := strings.IndexByte(m, '|')
		prefix := m[:bar]
		inner := strings.TrimSpace(m[bar+1 : len(m)-1])
		if inner == "" {
			return m
		}
		if len(inner) >= 2 && strings.HasPrefix(inner, `"`) && strings.HasSuffix(inner, `"`) {
			return m
		}
		return prefix + `|"` + escapeLabelQuotes(inner) + `"|`
	})
}

// apply scans line left-to-right for `<identifier><open>` under one rule,
// replaces each accepted span with a placeholder, and resumes just past the
// placeholder so a consumed span is never re-entered. Identifiers inside
// quoted text or adjacent to a quote or placeholder are not token starts.
func (a *conversionArena) apply(line string, rule shapeRule) string {
	if !strings.Contains(line, rule.open) {
		return line
	}
	boundary := tokenBoundary
	if rule.flat {
		// A flat close cannot protect label text that merely contains the
		// open character, so flat rules only start after whitespace or an
		// arrow/branch terminator.
		boundary = strictTokenBoundary
	}
	var b strings.Builder
	b.Grow(len(line))
	inDouble, inSingle := false, false
	i := 0
	for i < len(line) {
		ch := line[i]
		if ch == '"' && !inSingle {
			inDouble = !inDouble
		} else if ch == '\'' && !inDouble {
			inSingle = !inSingle
		}
		if inDouble || inSingle || !isIdentByte(ch) || (i > 0 && !boundary(line[i-1])) {
			b.WriteByte(ch)
			i++
			continue
		}
		start := i
		for i < len(line) && isIdentByte(line[i]) {
			i++
		}
		id := line[start:i]
		if !strings.HasPrefix(line[i:], rule.open) {
			b.WriteString(id)
			continue
		}
		end, ok := matchSpan(line, i, rule)
		if !ok {
			b.WriteString(id)
			continue
		}
		label := strings.TrimSpace(line[i+len(rule.open) : end+1-len(rule.close)])
		a.pending = append(a.pending, nodeConversion{id: id, shape: rule.shape, label: label})
		b.WriteString(placeholder(len(a.pending) - 1))
		i = end + 1
	}
	return b.String()
}

// matchSpan locates the closing delimiter for a token opening at open.
// Returns the index of the last byte of the close delimiter.
func matchSpan(line string, open int, rule shapeRule) (int, bool) {
	if rule.flat {
		return findClose(line, open+len(rule.open), rule.close)
	}
	end, ok := matchBalanced(line, open, rule.open[0], rule.close[len(rule.close)-1])
	if !ok {
		return 0, false
	}
	// The balanced close must also complete the rule's full close delimiter
	// without overlapping the open (e.g. lean-r `/]` vs. trapezoid `\]`).
	if !strings.HasSuffix(line[:end+1], rule.close) || end+1-len(rule.close) < open+len(rule.open) {
		return 0, false
	}
	return end, true
}

// matchBalanced walks forward from open tracking delimiter depth, ignoring
// delimiters inside quoted spans, and accepts only the close that returns
// depth to zero. This is what lets labels carry nested same-type delimiters:
// array indices, call parameter lists, quoted argument vectors.
func matchBalanced(line string, open int, openCh, closeCh byte) (int, bool) {
	depth := 0
	inDouble, inSingle := false, false
	for i := open; i < len(line); i++ {
		ch := line[i]
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if inDouble || inSingle {
			continue
		}
		switch ch {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// findClose returns the end index of the first unquoted occurrence of close.
func findClose(line string, from int, close string) (int, bool) {
	inDouble, inSingle := false, false
	for i := from; i < len(line); i++ {
		ch := line[i]
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if inDouble || inSingle {
			continue
		}
		if strings.HasPrefix(line[i:], close) {
			return i + len(close) - 1, true
		}
	}
	return 0, false
}

// resolve substitutes every placeholder in s with its final descriptor token.
// Labels may themselves contain placeholders from earlier, more specific
// rules; those resolve first, and the validator's descriptor guard keeps the
// nested token's brackets out of the outer label's balance count.
func (a *conversionArena) resolve(s string) string {
	if len(a.pending) == 0 || !strings.Contains(s, string(placeholderByte)) {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		idx, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || idx < 0 || idx >= len(a.pending) {
			return m
		}
		conv := a.pending[idx]
		return formatDescriptor(conv.id, conv.shape, a.resolve(conv.label))
	})
}

func (a *conversionArena) resolvedLabel(i int) string {
	return a.resolve(a.pending[i].label)
}

func isIdentByte(ch byte) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9')
}

// tokenBoundary reports whether a byte may immediately precede a node
// identifier. Quote characters and placeholder markers are excluded so ids
// inside quoted text or flush against a consumed span never start a token.
func tokenBoundary(ch byte) bool {
	return !isIdentByte(ch) && ch != '"' && ch != '\'' && ch != placeholderByte
}

func strictTokenBoundary(ch byte) bool {
	switch ch {
	case ' ', '\t', '>', '&', '|':
		return true
	}
	return false
}
