package mermaid

import (
	"regexp"
	"strings"
)

var (
	escapedBracketPair = regexp.MustCompile(`\\\[(.*?)\\\]`)
	escapedBracePair   = regexp.MustCompile(`\\\{(.*?)\\\}`)
	strayEscapedDelim  = regexp.MustCompile(`\\([\[\]{}])`)
)

// hasLegacyEscapes reports whether src contains at least one backslash-escaped
// delimiter. Used as a fast path only; ResolveEscapes is safe unconditionally.
func hasLegacyEscapes(src string) bool {
	return strayEscapedDelim.MatchString(src)
}

// ResolveEscapes rewrites legacy backslash-escaped delimiters into quoted
// literal text: an escaped bracket pair `\[...\]` becomes `"[...]"`, an
// escaped brace pair `\{...\}` becomes `"{...}"`, and any remaining stray
// escaped delimiter is unescaped to its literal character. Header lines pass
// through untouched.
func ResolveEscapes(src string) string {
	if !hasLegacyEscapes(src) {
		return src
	}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if isHeaderLine(line) {
			continue
		}
		line = escapedBracketPair.ReplaceAllString(line, `"[$1]"`)
		line = escapedBracePair.ReplaceAllString(line, `"{$1}"`)
		line = strayEscapedDelim.ReplaceAllString(line, "$1")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
