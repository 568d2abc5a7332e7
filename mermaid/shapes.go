package mermaid

import (
	"fmt"
	"strings"
)

// ShapeName is the canonical descriptor name attached to a node.
type ShapeName string

const (
	ShapeRect         ShapeName = "rect"
	ShapeRounded      ShapeName = "rounded"
	ShapeStadium      ShapeName = "stadium"
	ShapeSubroutine   ShapeName = "subroutine"
	ShapeCylinder     ShapeName = "cyl"
	ShapeCircle       ShapeName = "circle"
	ShapeDoubleCircle ShapeName = "dbl-circ"
	ShapeHexagon      ShapeName = "hex"
	ShapeDiamond      ShapeName = "diam"
	ShapeLeanRight    ShapeName = "lean-r"
	ShapeLeanLeft     ShapeName = "lean-l"
	ShapeTrapezoid    ShapeName = "trap-b"
	ShapeTrapezoidAlt ShapeName = "trap-t"
	ShapeOdd          ShapeName = "odd"
)

// descriptorMarker opens a canonical shape descriptor. Lines that already
// carry one are never converted again.
const descriptorMarker = "@{"

// shapeRule pairs a legacy delimiter pair with its canonical shape name.
// flat rules have a close delimiter that cannot nest and accept the first
// unquoted occurrence; all other rules accept the close that returns the
// outer delimiter depth to zero.
type shapeRule struct {
	shape ShapeName
	open  string
	close string
	flat  bool
}

// shapeRules is evaluated in order. Multi-character delimiter combinations
// come before single-character ones sharing a prefix, and prefix/suffix pairs
// that overlap (lean vs. trapezoid) are disambiguated by the suffix check in
// the scanner. Rect and rounded run last so that every more distinctive
// notation has already been consumed.
var shapeRules = []shapeRule{
	{shape: ShapeDoubleCircle, open: "(((", close: ")))"},
	{shape: ShapeCircle, open: "((", close: "))"},
	{shape: ShapeSubroutine, open: "[[", close: "]]"},
	{shape: ShapeStadium, open: "([", close: "])"},
	{shape: ShapeCylinder, open: "[(", close: ")]"},
	{shape: ShapeHexagon, open: "{{", close: "}}"},
	{shape: ShapeLeanRight, open: "[/", close: "/]"},
	{shape: ShapeLeanLeft, open: `[\`, close: `\]`},
	{shape: ShapeTrapezoid, open: "[/", close: `\]`},
	{shape: ShapeTrapezoidAlt, open: `[\`, close: "/]"},
	{shape: ShapeOdd, open: ">", close: "]", flat: true},
	{shape: ShapeDiamond, open: "{", close: "}"},
	{shape: ShapeRect, open: "[", close: "]"},
	{shape: ShapeRounded, open: "(", close: ")"},
}

// formatDescriptor renders the canonical shape descriptor token.
func formatDescriptor(id string, shape ShapeName, label string) string {
	return fmt.Sprintf("%s@{ shape: %s, label: \"%s\" }", id, shape, escapeLabelQuotes(label))
}

// escapeLabelQuotes escapes bare double quotes inside a label. Quotes already
// preceded by a backslash are left alone so repeated passes stay stable.
func escapeLabelQuotes(label string) string {
	if !strings.Contains(label, `"`) {
		return label
	}
	var b strings.Builder
	b.Grow(len(label) + 2)
	for i := 0; i < len(label); i++ {
		if label[i] == '"' && (i == 0 || label[i-1] != '\\') {
			b.WriteString(`\"`)
			continue
		}
		b.WriteByte(label[i])
	}
	return b.String()
}
