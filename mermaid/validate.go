package mermaid

import "strings"

// LabelBalanced reports whether bracket delimiters in a label are balanced.
// Characters inside single- or double-quoted spans are not counted, a
// backslash makes the following character literal, and the two quote kinds
// toggle independently. Empty input is balanced. Labels that carry an
// already-converted descriptor are skipped: their brackets are artifacts of a
// completed conversion nested inside this label's text.
func LabelBalanced(label string) bool {
	if strings.Contains(label, descriptorMarker) {
		return true
	}
	var round, square, curly int
	inDouble, inSingle := false, false
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if ch == '\\' {
			i++
			continue
		}
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
		case '(':
			round++
		case ')':
			round--
		case '[':
			square++
		case ']':
			square--
		case '{':
			curly++
		case '}':
			curly--
		}
		if round < 0 || square < 0 || curly < 0 {
			return false
		}
	}
	return round == 0 && square == 0 && curly == 0
}
