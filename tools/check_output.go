//go:build ignore

// check_output scans rendered documentation files for canonical diagram
// syntax, top-down orientation headers, and source citations.
// Run with: go run tools/check_output.go --dir docs/output
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	descriptorPattern  = regexp.MustCompile(`\w+@\{ shape: [\w-]+, label: "`)
	orientationPattern = regexp.MustCompile(`(?mi)^\s*(flowchart|graph)\s+(TD|TB|LR|RL|BT)\b`)
	citationPattern    = regexp.MustCompile(`\[[\w./-]+\.\w+(?::\d+)?\]`)
	legacyShapePattern = regexp.MustCompile(`\w+(\(\(|\[\[|\{\{|\[/|\[\\)`)
)

func main() {
	dir := flag.String("dir", ".", "directory of rendered documentation")
	ext := flag.String("ext", ".md", "file extension to inspect")
	requireCitations := flag.Bool("citations", false, "require at least one source citation per file")
	flag.Parse()

	var failures int
	err := filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, *ext) {
			return err
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		failures += checkFile(path, string(body), *requireCitations)
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "walk:", err)
		os.Exit(1)
	}
	if failures > 0 {
		fmt.Printf("FAIL: %d issue(s)\n", failures)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func checkFile(path, body string, requireCitations bool) int {
	var issues []string
	hasDiagram := strings.Contains(body, "```mermaid")
	if hasDiagram {
		if !descriptorPattern.MatchString(body) && legacyShapePattern.MatchString(body) {
			issues = append(issues, "diagram uses legacy shape syntax without canonical descriptors")
		}
		for _, m := range orientationPattern.FindAllStringSubmatch(body, -1) {
			dir := strings.ToUpper(m[2])
			if dir == "LR" || dir == "RL" {
				issues = append(issues, "diagram uses left-right orientation, expected top-down")
			}
		}
	}
	if requireCitations && !citationPattern.MatchString(body) {
		issues = append(issues, "no source citations found")
	}
	for _, issue := range issues {
		fmt.Printf("%s: %s\n", path, issue)
	}
	return len(issues)
}
