package mermaid

import (
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	mdtext "github.com/yuin/goldmark/text"
)

// TextFormat enumerates document formats that can embed diagram blocks.
type TextFormat string

const (
	FormatMarkdown TextFormat = "markdown"
	FormatOrg      TextFormat = "org"
)

// ErrNotImplemented signals that a document format is not supported.
var ErrNotImplemented = errors.New("document format not implemented")

// NormalizeDocument rewrites every embedded mermaid block inside a text
// document (markdown/org), leaving all other bytes untouched. This is the
// path rendered documentation pages take: prose with fenced diagrams.
func NormalizeDocument(body string, format TextFormat, opts Options) (string, error) {
	switch format {
	case FormatMarkdown:
		return normalizeMarkdown(body, opts)
	case FormatOrg:
		return normalizeOrg(body, opts)
	default:
		return "", ErrNotImplemented
	}
}

// normalizeMarkdown locates ```mermaid fences via the markdown AST and
// splices each normalized body back by byte offset.
func normalizeMarkdown(body string, opts Options) (string, error) {
	md := goldmark.New()
	src := []byte(body)
	root := md.Parser().Parse(mdtext.NewReader(src))

	type fence struct {
		start, stop int
	}
	var fences []fence
	err := mdast.Walk(root, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		fcb, ok := n.(*mdast.FencedCodeBlock)
		if !ok {
			return mdast.WalkContinue, nil
		}
		if !strings.EqualFold(string(fcb.Language(src)), "mermaid") {
			return mdast.WalkContinue, nil
		}
		lines := fcb.Lines()
		if lines.Len() == 0 {
			return mdast.WalkContinue, nil
		}
		fences = append(fences, fence{
			start: lines.At(0).Start,
			stop:  lines.At(lines.Len() - 1).Stop,
		})
		return mdast.WalkContinue, nil
	})
	if err != nil {
		return "", &NormalizeError{Type: ErrParse, Message: "walk markdown", Err: err}
	}
	if len(fences) == 0 {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	last := 0
	for _, f := range fences {
		b.WriteString(body[last:f.start])
		block := body[f.start:f.stop]
		trimmed := strings.TrimRight(block, "\n")
		b.WriteString(NormalizeWithOptions(trimmed, opts))
		b.WriteString(block[len(trimmed):])
		last = f.stop
	}
	b.WriteString(body[last:])
	return b.String(), nil
}
