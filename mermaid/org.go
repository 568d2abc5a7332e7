package mermaid

import (
	"strings"

	goorg "github.com/niklasfasching/go-org/org"
)

// normalizeOrg rewrites mermaid source blocks inside an org document. The
// document is parsed and written back once to confirm it is well-formed org;
// the rewrite itself works on the original lines so every byte outside the
// blocks survives verbatim.
func normalizeOrg(body string, opts Options) (string, error) {
	doc := goorg.New().Parse(strings.NewReader(body), "")
	if _, err := doc.Write(goorg.NewOrgWriter()); err != nil {
		return "", &NormalizeError{Type: ErrParse, Message: "parse org document", Err: err}
	}

	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	var block []string
	inBlock := false
	for _, line := range lines {
		head := strings.ToLower(strings.TrimSpace(line))
		if inBlock {
			if strings.HasPrefix(head, "#+end_src") {
				normalized := NormalizeWithOptions(strings.Join(block, "\n"), opts)
				out = append(out, strings.Split(normalized, "\n")...)
				out = append(out, line)
				block = nil
				inBlock = false
				continue
			}
			block = append(block, line)
			continue
		}
		if strings.HasPrefix(head, "#+begin_src mermaid") {
			inBlock = true
		}
		out = append(out, line)
	}
	// An unterminated block passes through untouched.
	out = append(out, block...)
	return strings.Join(out, "\n"), nil
}
